package patterns

import (
	"fmt"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// literalTrapForms maps form names to renderers for the literal-trap
// category: dict literals whose key types conflict or carry no context.
var literalTrapForms = map[string]renderFunc{
	"empty_no_context":    renderEmptyNoContext,
	"homogeneous_literal": renderHomogeneousLiteral,
	"mixed_literal":       renderMixedLiteral,
	"delayed_use":         renderDelayedUse,
	"nested_empty":        renderNestedEmpty,
	"reassignment":        renderReassignment,
	"comprehension":       renderComprehension,
	"conditional_key":     renderConditionalKey,
}

// renderEmptyNoContext emits an empty literal returned through an untyped
// function, then written with alternating key types at the call site.
func renderEmptyNoContext(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "def build_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    %s = {}\n", spec.Ident)
	fmt.Fprintf(&b, "    return %s\n\n\n", spec.Ident)
	fmt.Fprintf(&b, "def use_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    d = build_%s_%d()\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "    d[%q] = %d\n", word(i), i+1)
		} else {
			fmt.Fprintf(&b, "    d[%d] = %q\n", i+1, word(i))
		}
	}

	b.WriteString("    return d\n")

	return single(spec, b.String(), m.ExpectUnresolved)
}

// renderHomogeneousLiteral emits a literal with a single key type so the
// downstream inference must commit to one representation.
func renderHomogeneousLiteral(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s_%d = %s\n\n\n", spec.Ident, spec.Index, dictLiteral(spec.Key, spec.Branches, spec.Index))
	fmt.Fprintf(&b, "def read_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return %s_%d[%s]\n\n\n", spec.Ident, spec.Index, keyLiteral(spec.Key, spec.Index))
	fmt.Fprintf(&b, "def size_%s_%d() -> int:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return len(%s_%d)\n", spec.Ident, spec.Index)

	return single(spec, b.String(), expectation(spec.Key))
}

// renderMixedLiteral emits one literal mixing several primitive key types;
// depth 2 nests a second mixed literal as a value.
func renderMixedLiteral(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kinds := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat, m.KeyBool, m.KeyTuple}

	n := spec.Branches
	if n > len(kinds) {
		n = len(kinds)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s_%d = {\n", spec.Ident, spec.Index)

	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "    %s: %s,\n", keyLiteral(kinds[i], i+spec.Index), valueLiteral(i+spec.Index))
	}

	if spec.Depth > 1 {
		fmt.Fprintf(&b, "    \"nested\": %s,\n", dictLiteral(m.KeyMixed, 3, spec.Index+1))
	}

	b.WriteString("}\n\n\n")
	fmt.Fprintf(&b, "def probe_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return list(%s_%d.keys())\n", spec.Ident, spec.Index)

	return single(spec, b.String(), m.ExpectMixed)
}

// renderDelayedUse fills an empty dict with string keys, then with keys of
// the axis type, so the conflict appears only after the first loop.
func renderDelayedUse(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	secondKey := "i"
	expect := m.ExpectMixed

	if spec.Key == m.KeyStr {
		secondKey = "f\"extra_{i}\""
		expect = m.ExpectStringKeyed
	}

	var b strings.Builder

	fmt.Fprintf(&b, "def build_%s_%d():\n", spec.Ident, spec.Index)
	b.WriteString("    acc = {}\n")
	fmt.Fprintf(&b, "    for i in range(%d):\n", spec.Branches)
	b.WriteString("        acc[f\"slot_{i}\"] = i\n")
	fmt.Fprintf(&b, "    for i in range(%d):\n", spec.Branches)
	fmt.Fprintf(&b, "        acc[%s] = f\"value_{i}\"\n", secondKey)
	b.WriteString("    return acc\n\n\n")
	fmt.Fprintf(&b, "result_%s_%d = build_%s_%d()\n", spec.Ident, spec.Index, spec.Ident, spec.Index)

	return single(spec, b.String(), expect)
}

// renderNestedEmpty builds a chain of empty dicts Depth levels deep and only
// then inserts typed keys at the bottom.
func renderNestedEmpty(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "def create_%s_%d():\n", spec.Ident, spec.Index)
	b.WriteString("    outer = {}\n")

	path := "outer"
	for i := 1; i <= spec.Depth; i++ {
		fmt.Fprintf(&b, "    %s[\"level%d\"] = {}\n", path, i)
		path = fmt.Sprintf("%s[\"level%d\"]", path, i)
	}

	switch spec.Key {
	case m.KeyInt:
		fmt.Fprintf(&b, "    %s[0] = \"zero\"\n", path)
	case m.KeyMixed:
		fmt.Fprintf(&b, "    %s[\"value\"] = 42\n", path)
		fmt.Fprintf(&b, "    %s[0] = \"zero\"\n", path)
	default:
		fmt.Fprintf(&b, "    %s[\"value\"] = 42\n", path)
	}

	b.WriteString("    return outer\n\n\n")
	fmt.Fprintf(&b, "nested_%s_%d = create_%s_%d()\n", spec.Ident, spec.Index, spec.Ident, spec.Index)

	return single(spec, b.String(), expectation(spec.Key))
}

// renderReassignment rebinds one variable to literals with rotating key
// types; the final rebinding is an empty literal plus a tuple-keyed insert.
func renderReassignment(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	rotation := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat, m.KeyBool}

	start := 0
	for i, k := range rotation {
		if k == spec.Key {
			start = i
		}
	}

	var b strings.Builder

	for i := 0; i < spec.Branches; i++ {
		kind := rotation[(start+i)%len(rotation)]
		fmt.Fprintf(&b, "%s_%d = %s\n", spec.Ident, spec.Index, dictLiteral(kind, 2, spec.Index+i))
		fmt.Fprintf(&b, "print(%s_%d[%s])\n", spec.Ident, spec.Index, keyLiteral(kind, spec.Index+i))
	}

	fmt.Fprintf(&b, "%s_%d = {}\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "%s_%d[(1, 2)] = \"pair\"\n", spec.Ident, spec.Index)

	return single(spec, b.String(), m.ExpectMixed)
}

// renderComprehension derives dicts whose key types come from comprehension
// expressions rather than literals.
func renderComprehension(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "source_%s_%d = [\"alpha\", \"beta\", \"gamma\", \"delta\"]\n\n", spec.Ident, spec.Index)

	switch spec.Key {
	case m.KeyInt:
		fmt.Fprintf(&b, "%s_%d = {i * 2: chr(65 + i) for i in range(%d)}\n",
			spec.Ident, spec.Index, spec.Branches+3)
	case m.KeyMixed:
		fmt.Fprintf(&b, "%s_%d = {(i if i < %d else str(i)): i * i for i in range(%d)}\n",
			spec.Ident, spec.Index, spec.Branches, spec.Branches+3)
	default:
		fmt.Fprintf(&b, "%s_%d = {w.upper(): len(w) for w in source_%s_%d}\n",
			spec.Ident, spec.Index, spec.Ident, spec.Index)
	}

	if spec.Branches > 1 {
		fmt.Fprintf(&b, "inverted_%s_%d = {v: k for k, v in %s_%d.items()}\n",
			spec.Ident, spec.Index, spec.Ident, spec.Index)
	}

	if spec.Branches > 2 {
		fmt.Fprintf(&b, "merged_%s_%d = {**%s_%d, **inverted_%s_%d}\n",
			spec.Ident, spec.Index, spec.Ident, spec.Index, spec.Ident, spec.Index)
	}

	return single(spec, b.String(), expectation(spec.Key))
}

// renderConditionalKey selects the key shape at runtime, so no single static
// key type exists.
func renderConditionalKey(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "def make_%s_%d(selector: int) -> dict:\n", spec.Ident, spec.Index)
	b.WriteString("    table = {}\n")
	b.WriteString("    for i in range(6):\n")

	shapes := []string{"f\"item_{i}\"", "i", "(i, selector)", "float(i)"}

	for i := 0; i < spec.Branches; i++ {
		cond := "if"
		if i > 0 {
			cond = "elif"
		}

		if i == spec.Branches-1 {
			b.WriteString("        else:\n")
		} else {
			fmt.Fprintf(&b, "        %s selector == %d:\n", cond, i)
		}

		fmt.Fprintf(&b, "            key = %s\n", shapes[i])
	}

	b.WriteString("        table[key] = i * 10\n")
	b.WriteString("    return table\n\n\n")

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "table_%s_%d_%d = make_%s_%d(%d)\n", spec.Ident, spec.Index, i, spec.Ident, spec.Index, i)
	}

	return single(spec, b.String(), m.ExpectMixed)
}
