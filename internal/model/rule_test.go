package model

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		source []byte
		dest   []byte
		want   Classification
	}{
		{
			name:   "absent destination is new",
			source: []byte("content"),
			dest:   nil,
			want:   ClassNew,
		},
		{
			name:   "identical content is unchanged",
			source: []byte("content"),
			dest:   []byte("content"),
			want:   ClassUnchanged,
		},
		{
			name:   "differing content is conflict",
			source: []byte("content"),
			dest:   []byte("other"),
			want:   ClassConflict,
		},
		{
			name:   "empty destination file is not absent",
			source: []byte("content"),
			dest:   []byte{},
			want:   ClassConflict,
		},
		{
			name:   "both empty is unchanged",
			source: []byte{},
			dest:   []byte{},
			want:   ClassUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.source, tt.dest); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFile_Equal(t *testing.T) {
	a := RuleFile{Path: "languages/go.md", Content: []byte("A")}
	b := RuleFile{Path: "languages/golang.md", Content: []byte("A")}
	c := RuleFile{Path: "languages/go.md", Content: []byte("B")}

	if !a.Equal(b) {
		t.Error("files with identical content should be equal regardless of path")
	}
	if a.Equal(c) {
		t.Error("files with differing content should not be equal")
	}
}

func TestRuleFile_Name(t *testing.T) {
	r := RuleFile{Path: "languages/python.md"}
	if got := r.Name(); got != "python.md" {
		t.Errorf("Name() = %q, want %q", got, "python.md")
	}
}

func TestLayoutMode_DestRelPath(t *testing.T) {
	if got := LayoutPreserve.DestRelPath("languages/go.md"); got != "languages/go.md" {
		t.Errorf("preserve mapped %q", got)
	}
	if got := LayoutFlatten.DestRelPath("languages/go.md"); got != "go.md" {
		t.Errorf("flatten mapped %q", got)
	}
}

func TestLayoutMode_IsValid(t *testing.T) {
	for _, mode := range []LayoutMode{LayoutPreserve, LayoutFlatten} {
		if !mode.IsValid() {
			t.Errorf("expected %q to be valid", mode)
		}
	}
	if LayoutMode("mirror").IsValid() {
		t.Error("expected unknown mode to be invalid")
	}
	if LayoutMode("").IsValid() {
		t.Error("expected empty mode to be invalid")
	}
}
