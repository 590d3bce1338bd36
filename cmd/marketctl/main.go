// Command marketctl drives the campus marketplace from a terminal, sharing
// the server's SQLite database.
package main

import "os"

func main() {
	if err := newApp(os.Stdin, os.Stdout).execute(nil, os.Stderr); err != nil {
		os.Exit(1)
	}
}
