package osfilesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "a", "b", "c", "keyframe_0.jpg")
	if err := fs.WriteFile(testPath, []byte("frame")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "frame" {
		t.Errorf("expected %q, got %q", "frame", data)
	}

	size, err := fs.Size(testPath)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 5 {
		t.Errorf("expected size 5, got %d", size)
	}
}

func TestFileSystem_ExistsAndIsDir(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "clip.mp4")
	os.WriteFile(filePath, []byte("x"), 0644)

	exists, err := fs.Exists(filePath)
	if err != nil || !exists {
		t.Fatalf("Exists(file) = %v, %v", exists, err)
	}
	isDir, err := fs.IsDir(filePath)
	if err != nil || isDir {
		t.Errorf("IsDir(file) = %v, %v", isDir, err)
	}
	isDir, err = fs.IsDir(tmpDir)
	if err != nil || !isDir {
		t.Errorf("IsDir(dir) = %v, %v", isDir, err)
	}

	exists, err = fs.Exists(filepath.Join(tmpDir, "missing.mp4"))
	if err != nil || exists {
		t.Errorf("Exists(missing) = %v, %v", exists, err)
	}
	isDir, err = fs.IsDir(filepath.Join(tmpDir, "missing"))
	if err != nil || isDir {
		t.Errorf("IsDir(missing) = %v, %v", isDir, err)
	}
}

func TestFileSystem_ReadDirListsFilesOnly(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "b.avi"), nil, 0644)
	os.WriteFile(filepath.Join(tmpDir, "a.mp4"), nil, 0644)
	os.Mkdir(filepath.Join(tmpDir, "sub.mp4"), 0755)

	names, err := fs.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a.mp4" || names[1] != "b.avi" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestFileSystem_Move(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "work", "output.mp4")
	dst := filepath.Join(tmpDir, "out", "clip.mp4")
	if err := fs.WriteFile(src, []byte("muxed")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := fs.Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if exists, _ := fs.Exists(src); exists {
		t.Error("expected source to be gone after move")
	}
	data, err := fs.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "muxed" {
		t.Errorf("expected %q, got %q", "muxed", data)
	}
}

func TestFileSystem_RemoveAll(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	root := filepath.Join(tmpDir, "area")
	fs.WriteFile(filepath.Join(root, "keyframes", "keyframe_0.jpg"), []byte("x"))
	fs.WriteFile(filepath.Join(root, "aligned_keyframes", "aligned_keyframe_0_0.png"), []byte("y"))

	if err := fs.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if exists, _ := fs.Exists(root); exists {
		t.Error("expected tree to be removed")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "audio.aac")
	os.WriteFile(testPath, []byte("test"), 0644)

	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(testPath); exists {
		t.Error("expected file to be removed")
	}
}
