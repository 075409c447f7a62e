// Package textscan implements literal and pattern search over a file or a
// directory tree, and bounded in-place text replacement.
package textscan

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deepgate/deepgate/internal/protocol"
	"github.com/deepgate/deepgate/internal/workspace"
)

// Engine runs scans rooted in a workspace.
type Engine struct {
	ws *workspace.Workspace
}

// NewEngine creates a scan engine over ws.
func NewEngine(ws *workspace.Workspace) *Engine {
	return &Engine{ws: ws}
}

// SearchOptions selects the scope and matching mode of a scan. Exactly one
// of FilePath or Directory must be set.
type SearchOptions struct {
	Pattern       string
	FilePath      string
	Directory     string
	CaseSensitive bool
	Regex         bool
}

// Match is one matching line. Span is the half-open byte range of the first
// occurrence on the line.
type Match struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	LineText   string `json:"line_text"`
	Span       [2]int `json:"match_span"`
}

// FileError records a file or directory that could not be scanned. Scans
// keep going past these instead of aborting.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SearchResult aggregates one scan.
type SearchResult struct {
	Matches      []Match     `json:"matches"`
	FilesScanned int         `json:"files_scanned"`
	FilesSkipped int         `json:"files_skipped"`
	Errors       []FileError `json:"errors"`
}

// Search scans the configured scope for pattern. With Regex false the
// pattern is matched as a literal substring; case sensitivity toggles
// independently. Files are visited in lexicographic path order so repeated
// runs over an unchanged tree produce identical output.
func (e *Engine) Search(opts SearchOptions) (*SearchResult, error) {
	if opts.Pattern == "" {
		return nil, protocol.E(protocol.KindValidation, "pattern is required")
	}
	if (opts.FilePath == "") == (opts.Directory == "") {
		return nil, protocol.E(protocol.KindValidation, "exactly one of file_path or directory is required")
	}

	re, err := compilePattern(opts.Pattern, opts.CaseSensitive, opts.Regex)
	if err != nil {
		return nil, err
	}

	res := &SearchResult{Matches: []Match{}, Errors: []FileError{}}

	if opts.FilePath != "" {
		abs := e.ws.Resolve(opts.FilePath)
		if _, err := os.Stat(abs); err != nil {
			return nil, workspace.Classify("search", abs, err)
		}
		e.scanFile(abs, re, res)
		return res, nil
	}

	abs := e.ws.Resolve(opts.Directory)
	info, err := os.Stat(abs)
	if err != nil {
		return nil, workspace.Classify("search", abs, err)
	}
	if !info.IsDir() {
		return nil, protocol.E(protocol.KindNotADirectory, "not a directory: %s", abs)
	}

	// WalkDir visits entries in lexical order, which gives the scan its
	// deterministic output ordering.
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, FileError{Path: path, Error: err.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		e.scanFile(path, re, res)
		return nil
	})
	if walkErr != nil {
		return nil, workspace.Classify("search", abs, walkErr)
	}
	return res, nil
}

// scanFile appends matches for one file. Unreadable files are recorded as
// per-file errors; binary files are skipped silently.
func (e *Engine) scanFile(path string, re *regexp.Regexp, res *SearchResult) {
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Errors = append(res.Errors, FileError{Path: path, Error: err.Error()})
		return
	}
	if !utf8.Valid(raw) {
		res.FilesSkipped++
		return
	}
	res.FilesScanned++

	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		res.Matches = append(res.Matches, Match{
			FilePath:   path,
			LineNumber: i + 1,
			LineText:   line,
			Span:       [2]int{loc[0], loc[1]},
		})
	}
}

// compilePattern builds the matcher. Literal patterns are quoted so regex
// metacharacters in them match themselves.
func compilePattern(pattern string, caseSensitive, regex bool) (*regexp.Regexp, error) {
	expr := pattern
	if !regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, protocol.Wrap(protocol.KindValidation, err, "invalid pattern: %s", pattern)
	}
	return re, nil
}
