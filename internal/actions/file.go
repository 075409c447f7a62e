package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepgate/deepgate/internal/protocol"
)

type readFileRequest struct {
	FilePath string `json:"file_path"`
	Encoding string `json:"encoding"`
}

func (d Deps) readFile(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req readFileRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	if req.FilePath == "" {
		return nil, protocol.E(protocol.KindValidation, "file_path is required")
	}

	res, err := d.Workspace.Read(req.FilePath, req.Encoding)
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: "File read successfully",
		Data: map[string]any{
			"content":  res.Content,
			"encoding": res.Encoding,
			"size":     res.Size,
		},
	}, nil
}

type writeFileRequest struct {
	FilePath string  `json:"file_path"`
	Content  *string `json:"content"`
	Encoding string  `json:"encoding"`
	Backup   *bool   `json:"backup"`
}

func (d Deps) writeFile(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req writeFileRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	if req.FilePath == "" {
		return nil, protocol.E(protocol.KindValidation, "file_path is required")
	}
	if req.Content == nil {
		return nil, protocol.E(protocol.KindValidation, "content is required")
	}
	backup := true
	if req.Backup != nil {
		backup = *req.Backup
	}

	res, err := d.Workspace.Write(req.FilePath, *req.Content, req.Encoding, backup)
	if err != nil {
		return nil, err
	}
	resData := map[string]any{
		"bytes_written": res.BytesWritten,
		"backup_taken":  res.BackupTaken,
	}
	if res.BackupTaken {
		resData["backup_path"] = res.BackupPath
	}
	return &protocol.Result{
		Message: fmt.Sprintf("Wrote %d bytes", res.BytesWritten),
		Data:    resData,
	}, nil
}

type listDirectoryRequest struct {
	Directory string `json:"directory"`
}

func (d Deps) listDirectory(ctx context.Context, data json.RawMessage) (*protocol.Result, error) {
	var req listDirectoryRequest
	if err := decodeInto(data, &req); err != nil {
		return nil, err
	}
	if req.Directory == "" {
		req.Directory = d.Workspace.Root()
	}

	entries, err := d.Workspace.List(req.Directory)
	if err != nil {
		return nil, err
	}
	return &protocol.Result{
		Message: fmt.Sprintf("Listed %d entries", len(entries)),
		Data: map[string]any{
			"directory": d.Workspace.Resolve(req.Directory),
			"entries":   entries,
		},
	}, nil
}
