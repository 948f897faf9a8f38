package platform

import (
	"testing"

	"github.com/mj1618/a11y-bridge/internal/model"
)

type fakeWindow struct {
	id      model.WindowID
	title   string
	handler ActionHandler
}

func (w *fakeWindow) ID() model.WindowID               { return w.id }
func (w *fakeWindow) Title() string                    { return w.title }
func (w *fakeWindow) SetActionHandler(h ActionHandler) { w.handler = h }

func TestNewAdapter_UnsupportedPlatform(t *testing.T) {
	orig := NewAdapterFunc
	NewAdapterFunc = nil
	defer func() { NewAdapterFunc = orig }()

	_, err := NewAdapter(&fakeWindow{id: 1}, "main", false)
	if err == nil {
		t.Fatal("expected error without a registered backend")
	}
	if err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestNewAdapter_UsesRegisteredBackend(t *testing.T) {
	orig := NewAdapterFunc
	NewAdapterFunc = NewHeadlessAdapter
	defer func() { NewAdapterFunc = orig }()

	a, err := NewAdapter(&fakeWindow{id: 4, title: "Editor"}, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if a.Window() != 4 {
		t.Errorf("window: got %s, want w4", a.Window())
	}
	if a.Name() != "Editor" {
		t.Errorf("empty name should fall back to the title, got %q", a.Name())
	}
	if !a.Active() {
		t.Error("adapter should start active")
	}
}
