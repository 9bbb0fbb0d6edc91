package validate

import (
	"strings"
	"testing"
)

func TestFileExtensions(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.WebP", "e.bmp"} {
		if out := File(name, 1024); !out.Accepted {
			t.Errorf("%s: rejected: %s", name, out.Reason)
		}
	}

	for _, name := range []string{"a.gif", "b.tiff", "c.pdf", "d.jpg.exe", "plain"} {
		out := File(name, 1024)
		if out.Accepted {
			t.Errorf("%s: accepted, want rejection", name)
		}
		if out.Reason == "" || out.Hint == "" {
			t.Errorf("%s: rejection missing reason or hint: %+v", name, out)
		}
	}
}

func TestFileSizeBounds(t *testing.T) {
	cases := []struct {
		size int64
		ok   bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{MaxFileBytes, true},
		{MaxFileBytes + 1, false},
	}

	for _, tc := range cases {
		out := File("photo.jpg", tc.size)
		if out.Accepted != tc.ok {
			t.Errorf("size %d: accepted=%v, want %v (%s)", tc.size, out.Accepted, tc.ok, out.Reason)
		}
	}
}

func TestExtensionCheckedBeforeSize(t *testing.T) {
	// A zero-byte GIF must be rejected for its extension, not its size.
	out := File("anim.gif", 0)
	if out.Accepted {
		t.Fatal("accepted")
	}
	if !strings.Contains(out.Reason, "type") {
		t.Fatalf("wrong first failure: %s", out.Reason)
	}
}

func TestMaxFileBytesExact(t *testing.T) {
	if MaxFileBytes != 104857600 {
		t.Fatalf("MaxFileBytes = %d", MaxFileBytes)
	}
}
