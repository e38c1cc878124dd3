package progress

import (
	"bytes"
	"testing"

	"github.com/klauern/rulesync/internal/ui"
)

func TestNew_DisabledWithoutColor(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	var buf bytes.Buffer
	b := New(Options{Max: 3, Description: "installing", Writer: &buf})

	if b.enabled {
		t.Fatal("bar should be disabled when colors are off")
	}
	if err := b.Add(1); err != nil {
		t.Errorf("Add() on disabled bar: %v", err)
	}
	if err := b.Set(2); err != nil {
		t.Errorf("Set() on disabled bar: %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Errorf("Finish() on disabled bar: %v", err)
	}
	if err := b.Clear(); err != nil {
		t.Errorf("Clear() on disabled bar: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote output: %q", buf.String())
	}
}

func TestSimple(t *testing.T) {
	ui.DisableColors()
	defer ui.EnableColors()

	b := Simple(10, "installing")
	if b == nil {
		t.Fatal("Simple() returned nil")
	}
	if err := b.Finish(); err != nil {
		t.Errorf("Finish(): %v", err)
	}
}
