// Package species holds the static species catalog, the id index built from
// it, and the pairwise compatibility lookup.
//
// Everything here is read-only after construction and is shared by
// reference across every fish of a species.
package species

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSpecies is returned when a species id has no profile.
var ErrUnknownSpecies = errors.New("unknown species")

// SizeClass is the coarse body size of a species.
type SizeClass uint8

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeLarge
)

var sizeClassNames = [...]string{"small", "medium", "large"}

func (s SizeClass) String() string {
	if int(s) < len(sizeClassNames) {
		return sizeClassNames[s]
	}
	return fmt.Sprintf("SizeClass(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SizeClass) MarshalText() ([]byte, error) {
	if int(s) >= len(sizeClassNames) {
		return nil, fmt.Errorf("invalid size class %d", uint8(s))
	}
	return []byte(sizeClassNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SizeClass) UnmarshalText(text []byte) error {
	for i, name := range sizeClassNames {
		if name == string(text) {
			*s = SizeClass(i)
			return nil
		}
	}
	return fmt.Errorf("invalid size class %q", text)
}

// Depth is the water column band a species prefers.
type Depth uint8

const (
	DepthMid Depth = iota
	DepthTop
	DepthBottom
)

var depthNames = [...]string{"mid", "top", "bottom"}

func (d Depth) String() string {
	if int(d) < len(depthNames) {
		return depthNames[d]
	}
	return fmt.Sprintf("Depth(%d)", uint8(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Depth) MarshalText() ([]byte, error) {
	if int(d) >= len(depthNames) {
		return nil, fmt.Errorf("invalid depth %d", uint8(d))
	}
	return []byte(depthNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Depth) UnmarshalText(text []byte) error {
	for i, name := range depthNames {
		if name == string(text) {
			*d = Depth(i)
			return nil
		}
	}
	return fmt.Errorf("invalid depth %q", text)
}

// RGB is a linear colour triple in [0,1].
type RGB [3]float64

// RenderProfile is cosmetic data for renderers. The simulator never reads it.
type RenderProfile struct {
	Body RGB `yaml:"body" json:"body"`
	Fin  RGB `yaml:"fin" json:"fin"`
	Eye  RGB `yaml:"eye" json:"eye"`
}

// Profile describes the behaviour and physiology shared by every fish of a species.
type Profile struct {
	ID             string        `yaml:"id" json:"id"`
	Label          string        `yaml:"label" json:"label"`
	SizeClass      SizeClass     `yaml:"size_class" json:"size_class"`
	Schooling      int           `yaml:"schooling" json:"schooling"`     // 0 = never schools, up to 3
	Temperament    int           `yaml:"temperament" json:"temperament"` // 0 = peaceful, 3 = aggressive
	TerritoryNeed  float64       `yaml:"territory_need" json:"territory_need"`
	Activity       float64       `yaml:"activity" json:"activity"`
	PreferredDepth Depth         `yaml:"preferred_depth" json:"preferred_depth"`
	Bioload        float64       `yaml:"bioload" json:"bioload"`
	OxygenUse      float64       `yaml:"oxygen_use" json:"oxygen_use"`
	Tags           []string      `yaml:"tags,omitempty" json:"tags,omitempty"` // informational only
	Render         RenderProfile `yaml:"render" json:"render"`
}

// MaxTier is the highest schooling or temperament tier.
const MaxTier = 3

// Validate checks that the profile's tiers and ratios are in range.
func (p *Profile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("empty id"))
	}
	if p.Schooling < 0 || p.Schooling > MaxTier {
		errs = append(errs, fmt.Errorf("schooling %d outside [0,%d]", p.Schooling, MaxTier))
	}
	if p.Temperament < 0 || p.Temperament > MaxTier {
		errs = append(errs, fmt.Errorf("temperament %d outside [0,%d]", p.Temperament, MaxTier))
	}
	if p.TerritoryNeed < 0 || p.TerritoryNeed > 1 {
		errs = append(errs, fmt.Errorf("territory_need %v outside [0,1]", p.TerritoryNeed))
	}
	if p.Activity < 0 || p.Activity > 1 {
		errs = append(errs, fmt.Errorf("activity %v outside [0,1]", p.Activity))
	}
	if p.Bioload < 0 {
		errs = append(errs, fmt.Errorf("negative bioload %v", p.Bioload))
	}
	if p.OxygenUse < 0 {
		errs = append(errs, fmt.Errorf("negative oxygen_use %v", p.OxygenUse))
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %q: %w", p.ID, errors.Join(errs...))
	}
	return nil
}

// Index maps species ids to their profiles.
type Index struct {
	byID map[string]*Profile
	ids  []string
}

// NewIndex builds an index over catalog. Later duplicates replace earlier ones.
// Profiles are copied once; fish share the index's copies by pointer.
func NewIndex(catalog []Profile) *Index {
	idx := &Index{byID: make(map[string]*Profile, len(catalog))}
	for i := range catalog {
		p := catalog[i]
		if _, dup := idx.byID[p.ID]; !dup {
			idx.ids = append(idx.ids, p.ID)
		}
		idx.byID[p.ID] = &p
	}
	sort.Strings(idx.ids)
	return idx
}

// Get returns the profile for id. A miss is a caller data error.
func (idx *Index) Get(id string) (*Profile, bool) {
	if idx == nil {
		return nil, false
	}
	p, ok := idx.byID[id]
	return p, ok
}

// Lookup returns the profile for id or an error wrapping ErrUnknownSpecies,
// with a suggestion when a close id exists.
func (idx *Index) Lookup(id string) (*Profile, error) {
	if p, ok := idx.Get(id); ok {
		return p, nil
	}
	if s := Suggest(id, idx.IDs()); s != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownSpecies, id, s)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSpecies, id)
}

// IDs returns the known ids in sorted order.
func (idx *Index) IDs() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.ids))
	copy(out, idx.ids)
	return out
}

// Len returns the number of species.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.ids)
}
