package tui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"metawash/internal/scrubclient"
	"metawash/internal/widget"
)

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{B: 0xff, A: 0xff})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResetKeyDuringScrub(t *testing.T) {
	m := NewModel(scrubclient.New("http://localhost:1"), t.TempDir(), "")

	next, _ := m.Update(fileReadMsg{name: "a.png", data: testPNG(t)})
	m = next.(Model)
	if m.widget.State() != widget.StateLoaded {
		t.Fatalf("state = %s, want loaded", m.widget.State())
	}

	next, _ = m.Update(keyMsg("s"))
	m = next.(Model)
	if m.widget.State() != widget.StateProcessing {
		t.Fatalf("state = %s, want processing", m.widget.State())
	}

	next, _ = m.Update(keyMsg("r"))
	m = next.(Model)
	if m.widget.State() != widget.StateEmpty {
		t.Fatalf("reset during scrub: state = %s, want empty", m.widget.State())
	}

	// The late completion must not resurrect the old flow.
	next, _ = m.Update(scrubDoneMsg{res: &scrubclient.Result{Data: []byte("stale")}})
	m = next.(Model)
	if m.widget.State() != widget.StateEmpty || m.widget.Result() != nil {
		t.Fatal("stale completion surfaced after reset")
	}
}
