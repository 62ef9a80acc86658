package domain

import (
	"hash/fnv"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// Composer produces ordered variant specs for one catalog pattern.
//
// The sequence is a pure function of (pattern, want, seed): the full
// combinatorial product over the pattern's forms and axes is enumerated in
// catalog order, permuted with a seeded Fisher-Yates shuffle and truncated to
// want. When want exceeds the space every distinct variant is returned once
// and the shortfall is reported as a deficit, never padded with duplicates.
type Composer interface {
	Compose(pattern Pattern, want int, seed uint64) ([]m.VariantSpec, int)
}

type composer struct{}

// NewComposer creates a Composer.
func NewComposer() Composer {
	return &composer{}
}

func (c *composer) Compose(pattern Pattern, want int, seed uint64) ([]m.VariantSpec, int) {
	if want <= 0 {
		return nil, 0
	}

	specs := enumerate(pattern)
	r := newRNG(patternSeed(seed, pattern.ID))

	r.shuffle(len(specs), func(i, j int) {
		specs[i], specs[j] = specs[j], specs[i]
	})

	deficit := 0
	if want > len(specs) {
		deficit = want - len(specs)
	} else {
		specs = specs[:want]
	}

	// Indices and identifier stems are assigned after the permutation so
	// they are stable for a given (pattern, want, seed) regardless of the
	// enumeration order of the catalog product.
	for i := range specs {
		specs[i].Index = i
		specs[i].Ident = r.ident(identPrefix(specs[i].Form), 4)
	}

	return specs, deficit
}

// enumerate walks the full form x axes product in stable catalog order.
func enumerate(pattern Pattern) []m.VariantSpec {
	specs := make([]m.VariantSpec, 0, pattern.Space())

	for _, form := range pattern.Forms {
		keys := form.Keys
		if len(keys) == 0 {
			keys = []m.KeyType{""}
		}

		depths := form.Depths
		if len(depths) == 0 {
			depths = []int{0}
		}

		branches := form.Branches
		if len(branches) == 0 {
			branches = []int{0}
		}

		for _, key := range keys {
			for _, depth := range depths {
				for _, branch := range branches {
					specs = append(specs, m.VariantSpec{
						Pattern:  pattern.ID,
						Form:     form.Name,
						Key:      key,
						Depth:    depth,
						Branches: branch,
					})
				}
			}
		}
	}

	return specs
}

// patternSeed derives an independent stream per category so that adding or
// filtering categories does not perturb the others' sequences.
func patternSeed(seed uint64, id m.PatternID) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))

	return seed ^ h.Sum64()
}

func identPrefix(form string) string {
	if len(form) > 4 {
		return form[:4]
	}

	return form
}
