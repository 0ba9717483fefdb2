package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalServiceSave(t *testing.T) {
	dir := t.TempDir()

	svc, err := newLocalService(dir)
	if err != nil {
		t.Fatalf("newLocalService: %v", err)
	}

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	locator, err := svc.Save(context.Background(), "cat.jpg", payload)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(locator, PublicUploadPrefix) {
		t.Fatalf("locator %q lacks public prefix", locator)
	}
	if !strings.HasSuffix(locator, ".jpg") {
		t.Fatalf("locator %q lost the original extension", locator)
	}

	name := strings.TrimPrefix(locator, PublicUploadPrefix)
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatal("stored file content differs from payload")
	}
}

func TestLocalServiceDefaultExtension(t *testing.T) {
	svc, err := newLocalService(t.TempDir())
	if err != nil {
		t.Fatalf("newLocalService: %v", err)
	}

	locator, err := svc.Save(context.Background(), "screenshot", []byte{1})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(locator, ".png") {
		t.Fatalf("locator %q did not default to .png", locator)
	}
}

func TestLocalServiceUniqueNames(t *testing.T) {
	svc, err := newLocalService(t.TempDir())
	if err != nil {
		t.Fatalf("newLocalService: %v", err)
	}

	ctx := context.Background()
	a, _ := svc.Save(ctx, "same.png", []byte{1})
	b, _ := svc.Save(ctx, "same.png", []byte{2})

	if a == b {
		t.Fatalf("two uploads received the same locator: %q", a)
	}
}

func TestLocalServiceCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := newLocalService(dir); err != nil {
		t.Fatalf("newLocalService: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("upload directory missing: %v", err)
	}
}

func TestMimeForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.png", "image/png"},
		{"a.JPG", "image/jpeg"},
		{"a.webp", "image/webp"},
		{"archive.zip", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := mimeForName(tt.name); got != tt.want {
			t.Errorf("mimeForName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
