package species

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogValid(t *testing.T) {
	for _, p := range DefaultCatalog() {
		if err := p.Validate(); err != nil {
			t.Errorf("default profile invalid: %v", err)
		}
	}
}

func TestIndexSharesProfiles(t *testing.T) {
	idx := NewIndex(DefaultCatalog())
	if idx.Len() != 5 {
		t.Fatalf("expected 5 species, got %d", idx.Len())
	}

	a, ok := idx.Get(NeonTetra)
	if !ok {
		t.Fatal("neon_tetra missing from index")
	}
	b, _ := idx.Get(NeonTetra)
	if a != b {
		t.Error("index must hand out the same profile pointer for an id")
	}
	if a.Schooling != 3 || a.PreferredDepth != DepthMid {
		t.Errorf("unexpected neon tetra profile: %+v", a)
	}

	ids := idx.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
}

func TestIndexLookupMiss(t *testing.T) {
	idx := NewIndex(DefaultCatalog())

	if _, ok := idx.Get("oscar"); ok {
		t.Error("expected miss for unknown id")
	}

	_, err := idx.Lookup("neon_tetr")
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "neon_tetra"`) {
		t.Errorf("expected suggestion in error, got %q", err)
	}

	_, err = idx.Lookup("oscar")
	if !errors.Is(err, ErrUnknownSpecies) || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("unexpected error for distant id: %v", err)
	}

	var nilIdx *Index
	if _, ok := nilIdx.Get(Guppy); ok {
		t.Error("nil index must miss")
	}
}

func TestProfileValidate(t *testing.T) {
	p := DefaultCatalog()[0]
	p.Schooling = 4
	p.Activity = 1.5
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "schooling") || !strings.Contains(msg, "activity") {
		t.Errorf("expected both problems reported, got %q", msg)
	}
}

func TestEnumText(t *testing.T) {
	for _, d := range []Depth{DepthMid, DepthTop, DepthBottom} {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Depth
		if err := back.UnmarshalText(text); err != nil || back != d {
			t.Errorf("depth %v did not survive text form (%q, %v)", d, text, err)
		}
	}

	var s SizeClass
	if err := s.UnmarshalText([]byte("medium")); err != nil || s != SizeMedium {
		t.Errorf("UnmarshalText(medium) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("huge")); err == nil {
		t.Error("expected error for unknown size class")
	}
}

func TestSuggest(t *testing.T) {
	ids := NewIndex(DefaultCatalog()).IDs()
	tests := []struct {
		in   string
		want string
	}{
		{"neon_tetra", "neon_tetra"},
		{"Neon Tetra", "neon_tetra"},
		{"guppi", "guppy"},
		{"cherry-barb", "cherry_barb"},
		{"corydora", "corydoras"},
		{"goldfish", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.in, ids); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
