package domain

import "strings"

// ImageRefPrefix is the URL path under which uploaded listing photos are served.
const ImageRefPrefix = "/images/"

// ImageRef turns a FileStore key into the reference stored on a listing.
func ImageRef(key string) string {
	return ImageRefPrefix + key
}

// ImageKey extracts the FileStore key from a reference. It returns false for
// references that do not point at an uploaded image (external URLs, inline
// data) since listings treat images as opaque.
func ImageKey(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, ImageRefPrefix)
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
