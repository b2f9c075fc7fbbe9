package blob

import (
	"io"
	"strings"
	"testing"
)

func TestPutAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/photos/")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	url, err := store.Put("c1-7.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/photos/c1-7.jpg" {
		t.Errorf("url = %q", url)
	}

	rc, err := store.Open("c1-7.jpg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Errorf("data = %q", data)
	}
}

func TestInvalidKeys(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/photos")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	for _, key := range []string{"", "a/b.jpg", `a\b.jpg`, "..secret"} {
		if _, err := store.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
		if _, err := store.Open(key); err == nil {
			t.Errorf("Open(%q) should fail", key)
		}
	}
}
