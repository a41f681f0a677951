package local

import (
	"bufio"
	"bytes"
	"log/slog"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

const IgnoreFileName = ".flickrsyncignore"

// IgnoreList decides which paths below the photo folder are never scanned.
type IgnoreList struct {
	fs      afero.Fs
	baseDir string
	ignore  *gitignore.GitIgnore
}

func NewIgnoreList(fs afero.Fs, baseDir string) *IgnoreList {
	return &IgnoreList{fs: fs, baseDir: baseDir}
}

// Load compiles the rules of the ignore file. Without a file nothing is
// ignored.
func (l *IgnoreList) Load() {
	ignorePath := filepath.Join(l.baseDir, IgnoreFileName)
	var ignoreLines []string

	if data, err := afero.ReadFile(l.fs, ignorePath); err == nil {
		rules := 0
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := scanner.Text()
			if line != "" {
				ignoreLines = append(ignoreLines, line)
				rules++
			}
		}

		if err := scanner.Err(); err != nil {
			slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
		} else {
			slog.Debug("loaded ignore file", "path", ignorePath, "rules", rules)
		}
	}

	if len(ignoreLines) == 0 {
		l.ignore = nil
		return
	}
	l.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

// ShouldIgnore matches a path relative to the base dir.
func (l *IgnoreList) ShouldIgnore(relPath string) bool {
	if l.ignore == nil {
		return false
	}
	return l.ignore.MatchesPath(filepath.ToSlash(relPath))
}
