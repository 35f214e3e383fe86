package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imagecompare/logging"
)

// ScanFolder lists options.FolderPath (non-recursive) and groups every file
// the parser recognises. Unrecognised names are skipped, not errors.
func ScanFolder(ctx context.Context, parser *Parser, options ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(options.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access folder %s: %w", options.FolderPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", options.FolderPath)
	}

	if options.DebugMode {
		logging.DebugLog("Starting scan of folder: %s", options.FolderPath)
	}

	// os.ReadDir returns entries sorted by name, which fixes first-seen order
	entries, err := os.ReadDir(options.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", options.FolderPath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := GroupNames(parser, options.FolderPath, names, options.Extension)
	if options.DebugMode {
		logging.DebugLog("Scan complete: %d files listed, %d matched, %d parameter groups",
			result.FilesListed, result.FilesMatched, result.Index.Len())
	}
	return result, nil
}

// GroupNames feeds names, in the given order, through the parser into a
// fresh index. Paths stored in the index are joined with folder.
func GroupNames(parser *Parser, folder string, names []string, extension string) *ScanResult {
	result := &ScanResult{
		Index:       NewIndex(),
		FilesListed: len(names),
	}

	for _, name := range names {
		parsed, ok := parser.Parse(name)
		if !ok {
			if extension != "" && HasExtension(name, extension) {
				result.Ignored = append(result.Ignored, name)
				logging.DebugLog("Skipping unrecognised image name: %s", name)
			}
			continue
		}
		result.FilesMatched++
		result.Index.Add(parsed, filepath.Join(folder, name))
	}
	return result
}
