package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *app) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and sign this profile in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := a.password(password)
			if err != nil {
				return err
			}
			s, err := a.accounts.Register(cmd.Context(), a.profileID(), args[0], cred)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered and signed in as %s\n", s.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign this profile in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := a.password(password)
			if err != nil {
				return err
			}
			s, err := a.accounts.Login(cmd.Context(), a.profileID(), args[0], cred)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign this profile out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.accounts.Logout(cmd.Context(), a.profileID()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			fmt.Fprintln(a.out, s.Email)
			return nil
		},
	}
}

// password returns flagValue or prompts for one, hiding input on a terminal.
func (a *app) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(a.out, "Password: ")
	defer fmt.Fprintln(a.out)

	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	// Non-terminal input such as a pipe.
	scanner := bufio.NewScanner(a.in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return "", io.EOF
}
