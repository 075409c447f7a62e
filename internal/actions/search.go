package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepgate/deepgate/internal/protocol"
	"github.com/deepgate/deepgate/internal/textscan"
)

type searchTextRequest struct {
	Pattern       string `json:"pattern"`
	FilePath      string `json:"file_path"`
	Directory     string `json:"directory"`
	CaseSensitive bool   `json:"case_sensitive"`
	Regex         bool   `json:"regex"`
}

func (d Deps) searchText(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req searchTextRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}

	res, err := d.Scanner.Search(textscan.SearchOptions{
		Pattern:       req.Pattern,
		FilePath:      req.FilePath,
		Directory:     req.Directory,
		CaseSensitive: req.CaseSensitive,
		Regex:         req.Regex,
	})
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: fmt.Sprintf("Found %d matches in %d files", len(res.Matches), res.FilesScanned),
		Data: map[string]any{
			"matches":       res.Matches,
			"files_scanned": res.FilesScanned,
			"files_skipped": res.FilesSkipped,
			"errors":        res.Errors,
		},
	}, nil
}

type replaceTextRequest struct {
	FilePath string  `json:"file_path"`
	OldText  string  `json:"old_text"`
	NewText  *string `json:"new_text"`
	Count    *int    `json:"count"`
	Backup   *bool   `json:"backup"`
}

func (d Deps) replaceText(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req replaceTextRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	if req.FilePath == "" {
		return nil, protocol.E(protocol.KindValidation, "file_path is required")
	}
	if req.OldText == "" {
		return nil, protocol.E(protocol.KindValidation, "old_text is required")
	}
	if req.NewText == nil {
		return nil, protocol.E(protocol.KindValidation, "new_text is required")
	}
	count := -1
	if req.Count != nil {
		count = *req.Count
	}
	backup := true
	if req.Backup != nil {
		backup = *req.Backup
	}

	res, err := d.Scanner.Replace(req.FilePath, req.OldText, *req.NewText, count, backup)
	if err != nil {
		return nil, err
	}
	resData := map[string]any{
		"replacements": res.Replacements,
		"backup_taken": res.BackupTaken,
	}
	if res.BackupTaken {
		resData["backup_path"] = res.BackupPath
	}
	return &protocol.Result{
		Message: fmt.Sprintf("Replaced %d occurrences", res.Replacements),
		Data:    resData,
	}, nil
}
