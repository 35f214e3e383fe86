package scanner

import "imagecompare/types"

// ScanOptions defines the options for scanning
type ScanOptions struct {
	FolderPath string
	Extension  string
	DebugMode  bool
}

// ScanResult holds the grouping index built from one directory listing
type ScanResult struct {
	Index        *Index
	FilesListed  int
	FilesMatched int
	// Ignored holds image files whose name matched no family
	Ignored []string
}

// Groups is a shortcut for Index.Groups
func (r *ScanResult) Groups() []*types.ImageGroup {
	return r.Index.Groups()
}
