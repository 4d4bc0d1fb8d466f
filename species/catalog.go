package species

// Default species ids.
const (
	NeonTetra    = "neon_tetra"
	Guppy        = "guppy"
	Corydoras    = "corydoras"
	DwarfGourami = "dwarf_gourami"
	CherryBarb   = "cherry_barb"
)

// DefaultCatalog returns the built-in community tank catalog.
// A fresh slice is returned on every call.
func DefaultCatalog() []Profile {
	return []Profile{
		{
			ID:             NeonTetra,
			Label:          "Neon Tetra",
			SizeClass:      SizeSmall,
			Schooling:      3,
			Temperament:    0,
			TerritoryNeed:  0.12,
			Activity:       0.78,
			PreferredDepth: DepthMid,
			Bioload:        0.72,
			OxygenUse:      0.58,
			Tags:           []string{"community", "schooling"},
			Render: RenderProfile{
				Body: RGB{0.2, 0.87, 1},
				Fin:  RGB{0.95, 0.38, 0.3},
				Eye:  RGB{0.08, 0.12, 0.15},
			},
		},
		{
			ID:             Guppy,
			Label:          "Guppy",
			SizeClass:      SizeSmall,
			Schooling:      1,
			Temperament:    0,
			TerritoryNeed:  0.18,
			Activity:       0.74,
			PreferredDepth: DepthTop,
			Bioload:        0.8,
			OxygenUse:      0.62,
			Tags:           []string{"community", "livebearer"},
			Render: RenderProfile{
				Body: RGB{1, 0.58, 0.24},
				Fin:  RGB{1, 0.77, 0.3},
				Eye:  RGB{0.1, 0.08, 0.08},
			},
		},
		{
			ID:             Corydoras,
			Label:          "Corydoras",
			SizeClass:      SizeSmall,
			Schooling:      2,
			Temperament:    0,
			TerritoryNeed:  0.14,
			Activity:       0.46,
			PreferredDepth: DepthBottom,
			Bioload:        0.84,
			OxygenUse:      0.6,
			Tags:           []string{"community", "bottom-dweller"},
			Render: RenderProfile{
				Body: RGB{0.65, 0.74, 0.84},
				Fin:  RGB{0.44, 0.56, 0.66},
				Eye:  RGB{0.1, 0.1, 0.12},
			},
		},
		{
			ID:             DwarfGourami,
			Label:          "Dwarf Gourami",
			SizeClass:      SizeMedium,
			Schooling:      0,
			Temperament:    2,
			TerritoryNeed:  0.56,
			Activity:       0.56,
			PreferredDepth: DepthMid,
			Bioload:        1.34,
			OxygenUse:      0.92,
			Tags:           []string{"territorial"},
			Render: RenderProfile{
				Body: RGB{0.56, 0.74, 1},
				Fin:  RGB{0.84, 0.92, 1},
				Eye:  RGB{0.08, 0.1, 0.14},
			},
		},
		{
			ID:             CherryBarb,
			Label:          "Cherry Barb",
			SizeClass:      SizeSmall,
			Schooling:      2,
			Temperament:    1,
			TerritoryNeed:  0.24,
			Activity:       0.7,
			PreferredDepth: DepthMid,
			Bioload:        0.86,
			OxygenUse:      0.68,
			Tags:           []string{"community", "schooling"},
			Render: RenderProfile{
				Body: RGB{0.96, 0.3, 0.44},
				Fin:  RGB{1, 0.58, 0.34},
				Eye:  RGB{0.12, 0.08, 0.08},
			},
		},
	}
}

// DefaultCompatibilityRules returns the pairwise scores for the default catalog.
func DefaultCompatibilityRules() []CompatibilityRule {
	return []CompatibilityRule{
		{A: NeonTetra, B: Guppy, Score: 0.76},
		{A: NeonTetra, B: Corydoras, Score: 0.9},
		{A: NeonTetra, B: DwarfGourami, Score: 0.44},
		{A: NeonTetra, B: CherryBarb, Score: 0.68},
		{A: Guppy, B: Corydoras, Score: 0.82},
		{A: Guppy, B: DwarfGourami, Score: 0.36},
		{A: Guppy, B: CherryBarb, Score: 0.54},
		{A: Corydoras, B: DwarfGourami, Score: 0.56},
		{A: Corydoras, B: CherryBarb, Score: 0.72},
		{A: DwarfGourami, B: CherryBarb, Score: 0.34},
	}
}
