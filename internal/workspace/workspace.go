// Package workspace implements file read/write/list operations rooted in a
// configured workspace directory, with encoding control and pre-write
// backups.
package workspace

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/deepgate/deepgate/internal/protocol"
)

// DefaultBackupSuffix is appended to a file's path to form its backup path.
// At most one backup per path exists at a time; each new backup overwrites
// the previous one.
const DefaultBackupSuffix = ".bak"

// Workspace resolves relative paths against a root directory and carries
// the backup naming policy.
type Workspace struct {
	root         string
	backupSuffix string
}

// New creates a workspace rooted at root. An empty suffix selects
// DefaultBackupSuffix.
func New(root, backupSuffix string) *Workspace {
	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	return &Workspace{root: root, backupSuffix: backupSuffix}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve turns a client-supplied path into an absolute one. Relative paths
// are joined to the workspace root.
func (w *Workspace) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.root, path)
}

// BackupPath returns the backup sibling for path.
func (w *Workspace) BackupPath(path string) string {
	return path + w.backupSuffix
}

// ReadResult is the outcome of a successful Read.
type ReadResult struct {
	Content  string
	Encoding string
	Size     int
}

// Read returns the full decoded content of path. encodingName defaults to
// UTF-8 when empty.
func (w *Workspace) Read(path, encodingName string) (*ReadResult, error) {
	abs := w.Resolve(path)

	enc, canonical, err := resolveEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, Classify("read", abs, err)
	}

	content, err := decode(raw, enc, canonical, abs)
	if err != nil {
		return nil, err
	}

	return &ReadResult{Content: content, Encoding: canonical, Size: len(raw)}, nil
}

// WriteResult is the outcome of a successful Write.
type WriteResult struct {
	BytesWritten int
	BackupTaken  bool
	BackupPath   string
}

// Write stores content at path, creating missing parent directories. When
// backup is requested and the target exists, the current on-disk content is
// copied to the backup path and flushed to disk before the target is
// touched. The new content lands via a temporary file and rename, so a
// failure mid-write never leaves a half-written target.
func (w *Workspace) Write(path, content, encodingName string, backup bool) (*WriteResult, error) {
	abs := w.Resolve(path)

	enc, canonical, err := resolveEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	raw, err := encode(content, enc, canonical)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, Classify("create parent directories for", abs, err)
	}

	res := &WriteResult{BytesWritten: len(raw)}
	if backup {
		taken, backupPath, err := w.backupExisting(abs)
		if err != nil {
			return nil, err
		}
		res.BackupTaken = taken
		res.BackupPath = backupPath
	}

	if err := writeAtomic(abs, raw); err != nil {
		return nil, err
	}
	return res, nil
}

// backupExisting copies the current content of abs to its backup path and
// syncs it. Returns false when abs does not exist yet.
func (w *Workspace) backupExisting(abs string) (bool, string, error) {
	src, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, "", nil
		}
		return false, "", Classify("back up", abs, err)
	}
	defer src.Close()

	backupPath := w.BackupPath(abs)
	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return false, "", Classify("create backup", backupPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return false, "", Classify("write backup", backupPath, err)
	}
	// The backup must be durable before the target is overwritten: a crash
	// between backup and write must never lose both versions.
	if err := dst.Sync(); err != nil {
		dst.Close()
		return false, "", Classify("sync backup", backupPath, err)
	}
	if err := dst.Close(); err != nil {
		return false, "", Classify("close backup", backupPath, err)
	}
	return true, backupPath, nil
}

// writeAtomic writes raw to a temporary sibling and renames it over abs.
func writeAtomic(abs string, raw []byte) error {
	dir := filepath.Dir(abs)
	tmp := filepath.Join(dir, "."+filepath.Base(abs)+".tmp-"+uuid.NewString())

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Classify("create temporary file in", dir, err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmp)
		return Classify("write", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return Classify("sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return Classify("close", tmp, err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		os.Remove(tmp)
		return Classify("rename temporary file over", abs, err)
	}
	return nil
}

// Entry describes one immediate child of a listed directory.
type Entry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Kind     string    `json:"type"` // "file" or "directory"
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// List returns the immediate entries of directory in name order.
func (w *Workspace) List(directory string) ([]Entry, error) {
	abs := w.Resolve(directory)

	info, err := os.Stat(abs)
	if err != nil {
		return nil, Classify("list", abs, err)
	}
	if !info.IsDir() {
		return nil, protocol.E(protocol.KindNotADirectory, "not a directory: %s", abs)
	}

	dirents, err := os.ReadDir(abs)
	if err != nil {
		return nil, Classify("list", abs, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		fi, err := d.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info; skip it.
			continue
		}
		kind := "file"
		if d.IsDir() {
			kind = "directory"
		}
		entries = append(entries, Entry{
			Name:     d.Name(),
			Path:     filepath.Join(abs, d.Name()),
			Kind:     kind,
			Size:     fi.Size(),
			Modified: fi.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Classify maps an OS-level error onto the wire taxonomy with a message
// naming the path, never a raw internal fault string.
func Classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return protocol.Wrap(protocol.KindNotFound, err, "file not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return protocol.Wrap(protocol.KindPermission, err, "permission denied: %s", path)
	case errors.Is(err, syscall.ENOTDIR):
		return protocol.Wrap(protocol.KindNotADirectory, err, "not a directory: %s", path)
	default:
		return protocol.Wrap(protocol.KindDisk, err, "failed to %s %s", op, path)
	}
}
