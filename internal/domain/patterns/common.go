// Package patterns holds the per-category renderers that turn a variant spec
// into concrete Python source. Every renderer is a pure function of its
// variant spec:
// all randomness is resolved by the composer before rendering.
package patterns

import (
	"fmt"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// words is the literal pool used for string keys and values. Selection cycles
// by variant index so rendering stays a pure function of the variant spec.
var words = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}

func word(i int) string {
	return words[((i%len(words))+len(words))%len(words)]
}

// keyLiteral returns the i-th key literal of the given key type.
func keyLiteral(key m.KeyType, i int) string {
	switch key {
	case m.KeyStr:
		return fmt.Sprintf("%q", word(i))
	case m.KeyInt:
		return fmt.Sprintf("%d", i*7+1)
	case m.KeyFloat:
		return fmt.Sprintf("%d.%d", i, (i*3+1)%10)
	case m.KeyBool:
		if i%2 == 0 {
			return "True"
		}

		return "False"
	case m.KeyNone:
		return "None"
	case m.KeyTuple:
		return fmt.Sprintf("(%d, %d)", i, i+1)
	case m.KeyMixed:
		// Alternate between the string and value representations so the
		// literal itself is the trap.
		if i%2 == 0 {
			return fmt.Sprintf("%q", word(i))
		}

		return fmt.Sprintf("%d", i*7+1)
	}

	return fmt.Sprintf("%q", word(i))
}

// valueLiteral returns the i-th value literal, alternating primitive types.
func valueLiteral(i int) string {
	switch i % 4 {
	case 0:
		return fmt.Sprintf("%d", i*10+1)
	case 1:
		return fmt.Sprintf("%q", word(i+3))
	case 2:
		if i%8 < 4 {
			return "True"
		}

		return "False"
	default:
		return fmt.Sprintf("%d.%d", i, (i*7+3)%10)
	}
}

// dictLiteral renders an inline dict literal with n entries of the given key
// type. Bool and None keys cannot repeat, so their entry count is clamped.
func dictLiteral(key m.KeyType, n, salt int) string {
	n = clampEntries(key, n)

	pairs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, fmt.Sprintf("%s: %s", keyLiteral(key, i+salt), valueLiteral(i+salt)))
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}

func clampEntries(key m.KeyType, n int) int {
	switch key {
	case m.KeyNone:
		return 1
	case m.KeyBool:
		if n > 2 {
			return 2
		}
	}

	if n < 1 {
		return 1
	}

	return n
}

// expectation maps a key-type axis to the oracle tag for the generated file.
func expectation(key m.KeyType) m.Expectation {
	switch key {
	case m.KeyStr:
		return m.ExpectStringKeyed
	case m.KeyMixed:
		return m.ExpectMixed
	case "":
		return m.ExpectUnresolved
	}

	return m.ExpectValueKeyed
}

// pyType names the Python annotation for a key type used in typed signatures.
func pyType(key m.KeyType) string {
	switch key {
	case m.KeyStr:
		return "str"
	case m.KeyInt:
		return "int"
	case m.KeyFloat:
		return "float"
	case m.KeyBool:
		return "bool"
	case m.KeyTuple:
		return "tuple"
	}

	return "object"
}

// header is the first line of every generated file; it encodes category, form
// and variant identity for regression triage.
func header(spec m.VariantSpec) string {
	b := fmt.Sprintf("# %s/%s variant %04d", spec.Pattern, spec.Form, spec.Index)
	if spec.Key != "" {
		b += " key=" + string(spec.Key)
	}

	if spec.Depth > 0 {
		b += fmt.Sprintf(" depth=%d", spec.Depth)
	}

	if spec.Branches > 0 {
		b += fmt.Sprintf(" branches=%d", spec.Branches)
	}

	return b + "\n"
}

// single wraps one rendered body into the standard single-file program shape.
func single(spec m.VariantSpec, body string, expect m.Expectation) ([]m.ProgramFile, m.Expectation) {
	return []m.ProgramFile{{Content: header(spec) + body}}, expect
}
