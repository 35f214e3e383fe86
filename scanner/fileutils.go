package scanner

import (
	"path/filepath"
	"strings"
)

// HasExtension reports whether name carries ext, ignoring case and a
// leading dot on ext.
func HasExtension(name, ext string) bool {
	want := "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	return strings.ToLower(filepath.Ext(name)) == want
}
