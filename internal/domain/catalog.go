// Package domain contains the corpus planning and generation logic.
package domain

import (
	m "ambigen.dev/pkg/ambigen/internal/model"
)

// Form is one structural template of a pattern together with the discrete
// axes it varies over. An axis left nil contributes a single default value.
type Form struct {
	Name     string
	Keys     []m.KeyType
	Depths   []int
	Branches []int
}

// Space is the number of distinct variants the form can produce.
func (f Form) Space() int {
	return axisLen(len(f.Keys)) * axisLen(len(f.Depths)) * axisLen(len(f.Branches))
}

func axisLen(n int) int {
	if n == 0 {
		return 1
	}

	return n
}

// Pattern is one catalog entry: an ambiguity-pattern category and its
// generation strategy. Entries are immutable and defined at startup; adding a
// category is a catalog edit, never a runtime decision.
type Pattern struct {
	ID          m.PatternID
	Description string
	MultiFile   bool
	Forms       []Form
}

// Space is the category's maximum number of distinct variants.
func (p Pattern) Space() int {
	total := 0
	for _, f := range p.Forms {
		total += f.Space()
	}

	return total
}

var primitiveKeys = []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat, m.KeyBool, m.KeyNone, m.KeyTuple}

var catalog = []Pattern{
	{
		ID:          m.PatternLiteralTrap,
		Description: "dict literals whose key types conflict or carry no type context",
		Forms: []Form{
			{Name: "empty_no_context", Branches: []int{1, 2, 3, 4}},
			{Name: "homogeneous_literal", Keys: primitiveKeys, Branches: []int{1, 2, 3, 4}},
			{Name: "mixed_literal", Branches: []int{2, 3, 4, 5}, Depths: []int{1, 2}},
			{Name: "delayed_use", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Branches: []int{1, 2, 3, 4}},
			{Name: "nested_empty", Depths: []int{1, 2, 3, 4}, Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}},
			{Name: "reassignment", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat, m.KeyBool}, Branches: []int{2, 3}},
			{Name: "comprehension", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}, Branches: []int{1, 2, 3}},
			{Name: "conditional_key", Branches: []int{2, 3, 4}},
		},
	},
	{
		ID:          m.PatternFlowGap,
		Description: "dicts crossing function boundaries, returns and annotated reassignments",
		Forms: []Form{
			{Name: "untyped_to_typed", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Branches: []int{2, 3, 4}},
			{Name: "generic_return", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}, Branches: []int{2, 3, 4}},
			{Name: "mutation_through_ref", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Branches: []int{1, 2, 3}},
			{Name: "call_chain", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Depths: []int{2, 3, 4, 5}},
			{Name: "conditional_return", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Branches: []int{2, 3, 4}},
			{Name: "closure_capture", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Branches: []int{1, 2}},
			{Name: "default_arg", Keys: []m.KeyType{m.KeyStr, m.KeyInt}},
			{Name: "generator_yield", Branches: []int{2, 3, 4}},
		},
	},
	{
		ID:          m.PatternMethodClash,
		Description: "same-named to_dict/from_dict conversions with disagreeing mapping types",
		Forms: []Form{
			{Name: "heterogeneous_to_dict", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}, Branches: []int{2, 3, 4}},
			{Name: "untyped_from_dict", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}, Branches: []int{2, 3}},
			{Name: "inheritance_conflict", Keys: []m.KeyType{m.KeyStr, m.KeyInt}, Depths: []int{1, 2}},
			{Name: "protocol_mismatch", Keys: []m.KeyType{m.KeyStr, m.KeyInt}},
			{Name: "dict_subclass", Branches: []int{2, 3}},
			{Name: "factory_methods", Branches: []int{3, 4, 5}},
		},
	},
	{
		ID:          m.PatternModuleBoundary,
		Description: "mapping definition and consumer split across modules",
		MultiFile:   true,
		Forms: []Form{
			{Name: "shared_definition", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}, Branches: []int{2, 3, 4}},
			{Name: "factory_functions", Keys: []m.KeyType{m.KeyStr, m.KeyInt, m.KeyMixed}},
			{Name: "alias_export", Keys: []m.KeyType{m.KeyStr, m.KeyInt}},
			{Name: "class_attribute", Branches: []int{1, 2}},
			{Name: "reexport_chain", Branches: []int{2, 3}},
		},
	},
}

// Catalog returns the fixed set of pattern categories in generation order.
func Catalog() []Pattern {
	return catalog
}

// CatalogPattern looks up a category by id.
func CatalogPattern(id m.PatternID) (Pattern, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}

	return Pattern{}, false
}
