package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deepgate/deepgate/internal/protocol"
)

func TestRead_Missing(t *testing.T) {
	ws := New(t.TempDir(), "")

	_, err := ws.Read("missing.txt", "")
	if err == nil {
		t.Fatal("Read() should fail for a missing file")
	}
	if protocol.KindOf(err) != protocol.KindNotFound {
		t.Errorf("Read() kind = %v, want %v", protocol.KindOf(err), protocol.KindNotFound)
	}
}

func TestRead_InvalidUTF8(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "binary.dat")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ws := New(root, "")
	_, err := ws.Read("binary.dat", "utf-8")
	if err == nil {
		t.Fatal("Read() should fail for undecodable bytes")
	}
	if protocol.KindOf(err) != protocol.KindDecode {
		t.Errorf("Read() kind = %v, want %v", protocol.KindOf(err), protocol.KindDecode)
	}
}

func TestRead_Latin1(t *testing.T) {
	root := t.TempDir()
	// "café" in ISO-8859-1: the é is a single 0xe9 byte, invalid as UTF-8.
	if err := os.WriteFile(filepath.Join(root, "latin.txt"), []byte{'c', 'a', 'f', 0xe9}, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ws := New(root, "")
	res, err := ws.Read("latin.txt", "iso-8859-1")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if res.Content != "café" {
		t.Errorf("Read() content = %q, want %q", res.Content, "café")
	}
	if res.Size != 4 {
		t.Errorf("Read() size = %d, want 4", res.Size)
	}
}

func TestRead_UnknownEncoding(t *testing.T) {
	ws := New(t.TempDir(), "")
	_, err := ws.Read("whatever.txt", "klingon-1")
	if protocol.KindOf(err) != protocol.KindValidation {
		t.Errorf("Read() kind = %v, want %v", protocol.KindOf(err), protocol.KindValidation)
	}
}

func TestWrite_CreatesParents(t *testing.T) {
	root := t.TempDir()
	ws := New(root, "")

	res, err := ws.Write(filepath.Join("a", "b", "c.txt"), "hello", "", true)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.BackupTaken {
		t.Error("Write() of a new file should not take a backup")
	}
	if res.BytesWritten != 5 {
		t.Errorf("Write() bytes = %d, want 5", res.BytesWritten)
	}

	got, err := os.ReadFile(filepath.Join(root, "a", "b", "c.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestWrite_BackupPreservesOldContent(t *testing.T) {
	root := t.TempDir()
	ws := New(root, "")

	if _, err := ws.Write("f.txt", "version one", "", true); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	res, err := ws.Write("f.txt", "version two", "", true)
	if err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	if !res.BackupTaken {
		t.Fatal("second Write() should have taken a backup")
	}

	current, err := os.ReadFile(filepath.Join(root, "f.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(current) != "version two" {
		t.Errorf("target content = %q, want %q", current, "version two")
	}

	backup, err := os.ReadFile(res.BackupPath)
	if err != nil {
		t.Fatalf("ReadFile(backup) error = %v", err)
	}
	if string(backup) != "version one" {
		t.Errorf("backup content = %q, want %q", backup, "version one")
	}
}

func TestWrite_BackupOverwritten(t *testing.T) {
	root := t.TempDir()
	ws := New(root, "")

	for _, content := range []string{"v1", "v2", "v3"} {
		if _, err := ws.Write("f.txt", content, "", true); err != nil {
			t.Fatalf("Write(%q) error = %v", content, err)
		}
	}

	backup, err := os.ReadFile(filepath.Join(root, "f.txt.bak"))
	if err != nil {
		t.Fatalf("ReadFile(backup) error = %v", err)
	}
	if string(backup) != "v2" {
		t.Errorf("backup content = %q, want %q (only the latest backup is kept)", backup, "v2")
	}
}

func TestWrite_NoBackupRequested(t *testing.T) {
	root := t.TempDir()
	ws := New(root, "")

	if _, err := ws.Write("f.txt", "one", "", false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := ws.Write("f.txt", "two", "", false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "f.txt.bak")); !os.IsNotExist(err) {
		t.Error("backup file should not exist when backup=false")
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "b.txt"), []byte("bb"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "a-dir"), 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	ws := New(root, "")
	entries, err := ws.List(".")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() len = %d, want 2", len(entries))
	}
	if entries[0].Name != "a-dir" || entries[0].Kind != "directory" {
		t.Errorf("entries[0] = %+v, want directory a-dir first", entries[0])
	}
	if entries[1].Name != "b.txt" || entries[1].Kind != "file" || entries[1].Size != 2 {
		t.Errorf("entries[1] = %+v, want file b.txt of size 2", entries[1])
	}
}

func TestList_OnFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "plain.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ws := New(root, "")
	_, err := ws.List("plain.txt")
	if protocol.KindOf(err) != protocol.KindNotADirectory {
		t.Errorf("List() kind = %v, want %v", protocol.KindOf(err), protocol.KindNotADirectory)
	}
}

func TestList_Missing(t *testing.T) {
	ws := New(t.TempDir(), "")
	_, err := ws.List("nope")
	if protocol.KindOf(err) != protocol.KindNotFound {
		t.Errorf("List() kind = %v, want %v", protocol.KindOf(err), protocol.KindNotFound)
	}
}

func TestResolve(t *testing.T) {
	ws := New("/work", "")
	if got := ws.Resolve("sub/file.txt"); got != "/work/sub/file.txt" {
		t.Errorf("Resolve(relative) = %q", got)
	}
	if got := ws.Resolve("/abs/file.txt"); got != "/abs/file.txt" {
		t.Errorf("Resolve(absolute) = %q", got)
	}
}
