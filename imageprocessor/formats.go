package imageprocessor

import (
	"path/filepath"
	"sort"
	"strings"
)

// FormatType represents a known image format type
type FormatType string

// Lossless formats the renderer can emit, plus JPEG for ad-hoc inputs
const (
	FormatUnknown FormatType = "unknown"
	FormatPNG     FormatType = "png"
	FormatTIFF    FormatType = "tiff"
	FormatBMP     FormatType = "bmp"
	FormatWEBP    FormatType = "webp"
	FormatJPEG    FormatType = "jpeg"
)

var formatExtensions = map[string]FormatType{
	".png":  FormatPNG,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
	".webp": FormatWEBP,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
}

// GetFileFormat returns the format type for a file
func GetFileFormat(path string) FormatType {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := formatExtensions[ext]; ok {
		return format
	}
	return FormatUnknown
}

// GetSupportedExtensions returns every known extension, sorted
func GetSupportedExtensions() []string {
	exts := make([]string, 0, len(formatExtensions))
	for ext := range formatExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
