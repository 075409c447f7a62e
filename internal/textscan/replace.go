package textscan

import (
	"strings"

	"github.com/deepgate/deepgate/internal/protocol"
)

// ReplaceResult reports how many occurrences were actually rewritten.
type ReplaceResult struct {
	Replacements int    `json:"replacements"`
	BackupTaken  bool   `json:"backup_taken"`
	BackupPath   string `json:"backup_path,omitempty"`
}

// Replace rewrites up to count occurrences of oldText with newText in path,
// left-to-right, top-to-bottom. count -1 means replace all. The file must
// already exist. Zero occurrences is a successful no-op: the file is left
// untouched and no backup is taken.
func (e *Engine) Replace(path, oldText, newText string, count int, backup bool) (*ReplaceResult, error) {
	if oldText == "" {
		return nil, protocol.E(protocol.KindValidation, "old_text must not be empty")
	}
	if count < -1 {
		return nil, protocol.E(protocol.KindValidation, "count must be -1 or non-negative, got %d", count)
	}

	read, err := e.ws.Read(path, "")
	if err != nil {
		return nil, err
	}

	n := strings.Count(read.Content, oldText)
	if count >= 0 && n > count {
		n = count
	}
	if n == 0 {
		return &ReplaceResult{Replacements: 0}, nil
	}

	updated := strings.Replace(read.Content, oldText, newText, n)
	written, err := e.ws.Write(path, updated, "", backup)
	if err != nil {
		return nil, err
	}

	return &ReplaceResult{
		Replacements: n,
		BackupTaken:  written.BackupTaken,
		BackupPath:   written.BackupPath,
	}, nil
}
