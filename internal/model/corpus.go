// Package model defines the data structures for corpus generation.
package model

// PatternID identifies an ambiguity-pattern category.
type PatternID string

const (
	// PatternLiteralTrap covers dict literals with ambiguous key types.
	PatternLiteralTrap PatternID = "literal-trap"
	// PatternFlowGap covers dicts flowing through function boundaries,
	// returns and annotated reassignments.
	PatternFlowGap PatternID = "flow-gap"
	// PatternMethodClash covers classes whose to_dict/from_dict signatures
	// disagree about the mapping's key type.
	PatternMethodClash PatternID = "method-clash"
	// PatternModuleBoundary covers a mapping definition and its consumer
	// split across separate modules.
	PatternModuleBoundary PatternID = "module-boundary"
)

// AllPatterns lists every catalog entry in stable generation order.
var AllPatterns = []PatternID{
	PatternLiteralTrap,
	PatternFlowGap,
	PatternMethodClash,
	PatternModuleBoundary,
}

// KeyType is the dict key-type axis of a variant.
type KeyType string

// Key-type axis values.
const (
	KeyStr   KeyType = "str"
	KeyInt   KeyType = "int"
	KeyFloat KeyType = "float"
	KeyBool  KeyType = "bool"
	KeyNone  KeyType = "none"
	KeyTuple KeyType = "tuple"
	KeyMixed KeyType = "mixed"
)

// VariantSpec is one concrete structural instantiation of a pattern. It is
// created by the composer and never mutated afterwards; renderers are pure
// functions of it.
type VariantSpec struct {
	Pattern  PatternID `yaml:"pattern"`
	Form     string    `yaml:"form"`
	Index    int       `yaml:"index"`
	Key      KeyType   `yaml:"key"`
	Depth    int       `yaml:"depth"`
	Branches int       `yaml:"branches"`
	Ident    string    `yaml:"ident"`
}

// Expectation names the key-type resolution the downstream transpiler should
// reach for a generated program. It is oracle metadata, not enforced here.
type Expectation string

// Expectation values.
const (
	ExpectStringKeyed Expectation = "string-keyed"
	ExpectValueKeyed  Expectation = "value-keyed"
	ExpectMixed       Expectation = "mixed"
	ExpectUnresolved  Expectation = "unresolved"
)

// ProgramFile is a single emitted source file.
type ProgramFile struct {
	Name    string
	Content string
}

// Program is a rendered variant: one or more source files plus the content
// hash over their normalized concatenation. Written once, never mutated.
type Program struct {
	Spec   VariantSpec
	Files  []ProgramFile
	Hash   string
	Expect Expectation
}

// Primary returns the name of the program's first file, which carries the
// manifest entry for multi-file sets.
func (p Program) Primary() string {
	if len(p.Files) == 0 {
		return ""
	}

	return p.Files[0].Name
}
