// Package local builds the inventory of photos found in the local photo folder.
package local

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/openmined/flickrsync/internal/photo"
	"github.com/spf13/afero"
)

// DefaultHiddenSegment is the directory Picasa keeps untouched originals in.
const DefaultHiddenSegment = ".picasaoriginals"

// Extensions that make a file a photo. Matching is case sensitive.
var Extensions = []string{".jpg", ".gif", ".png"}

// ScanResult is the outcome of a local scan.
type ScanResult struct {
	Inventory photo.Inventory
	// Collisions lists, per name, every path that claimed the name in walk
	// order. Only names claimed more than once are present. The inventory
	// keeps the last path.
	Collisions map[string][]string
}

type Scanner struct {
	fs            afero.Fs
	rootDir       string
	hiddenSegment string
	ignoreList    *IgnoreList
}

type ScannerOption func(*Scanner)

// WithHiddenSegment overrides the directory segment that is never scanned.
func WithHiddenSegment(segment string) ScannerOption {
	return func(s *Scanner) {
		s.hiddenSegment = segment
	}
}

// WithIgnoreList adds gitignore style rules on top of the hidden segment.
func WithIgnoreList(l *IgnoreList) ScannerOption {
	return func(s *Scanner) {
		s.ignoreList = l
	}
}

func NewScanner(fs afero.Fs, rootDir string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		fs:            fs,
		rootDir:       rootDir,
		hiddenSegment: DefaultHiddenSegment,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the root directory in lexical order. When two files share a
// name, the one visited last wins.
func (s *Scanner) Scan() (*ScanResult, error) {
	inventory := make(photo.Inventory)
	seen := make(map[string][]string)

	err := afero.Walk(s.fs, s.rootDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if path == s.rootDir {
				return fmt.Errorf("walk error: %w", walkErr)
			}
			// unreadable entries below the root are skipped
			slog.Warn("skipping unreadable path", "path", path, "error", walkErr)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return fmt.Errorf("walk rel path: %w", err)
		}

		if info.IsDir() {
			if s.hiddenSegment != "" && strings.Contains(path, s.hiddenSegment) {
				return filepath.SkipDir
			}
			if relPath != "." && s.ignored(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		name, ok := photoName(info.Name())
		if !ok || s.ignored(relPath, false) {
			return nil
		}

		id := filepath.Clean(path)
		inventory[name] = &photo.Record{
			ID:       id,
			Modified: info.ModTime(),
		}
		seen[name] = append(seen[name], id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local scan failed: %w", err)
	}

	collisions := make(map[string][]string)
	for name, paths := range seen {
		if len(paths) > 1 {
			collisions[name] = paths
		}
	}

	return &ScanResult{
		Inventory:  inventory,
		Collisions: collisions,
	}, nil
}

func (s *Scanner) ignored(relPath string, isDir bool) bool {
	if s.ignoreList == nil {
		return false
	}
	if isDir && s.ignoreList.ShouldIgnore(relPath+"/") {
		return true
	}
	return s.ignoreList.ShouldIgnore(relPath)
}

// photoName strips a known photo extension from a file name.
func photoName(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	for _, allowed := range Extensions {
		if ext == allowed {
			return strings.TrimSuffix(fileName, ext), true
		}
	}
	return "", false
}
