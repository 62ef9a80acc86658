package patterns

import (
	"fmt"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// flowGapForms maps form names to renderers for the flow-gap category: dicts
// crossing function boundaries, returns and annotated reassignments.
var flowGapForms = map[string]renderFunc{
	"untyped_to_typed":     renderUntypedToTyped,
	"generic_return":       renderGenericReturn,
	"mutation_through_ref": renderMutationThroughRef,
	"call_chain":           renderCallChain,
	"conditional_return":   renderConditionalReturn,
	"closure_capture":      renderClosureCapture,
	"default_arg":          renderDefaultArg,
	"generator_yield":      renderGeneratorYield,
}

// renderUntypedToTyped passes an untyped literal into a parameter annotated
// with the opposite key type.
func renderUntypedToTyped(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	annotated := spec.Key
	literal := m.KeyInt

	if spec.Key == m.KeyInt {
		literal = m.KeyStr
	}

	var b strings.Builder

	b.WriteString("from typing import Dict\n\n\n")
	fmt.Fprintf(&b, "def consume_%s_%d(data: Dict[%s, int]) -> int:\n", spec.Ident, spec.Index, pyType(annotated))
	b.WriteString("    return len(data)\n\n\n")
	fmt.Fprintf(&b, "raw_%s_%d = %s\n", spec.Ident, spec.Index, dictLiteral(literal, spec.Branches, spec.Index))
	fmt.Fprintf(&b, "total_%s_%d = consume_%s_%d(raw_%s_%d)\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index, spec.Ident, spec.Index)

	return single(spec, b.String(), m.ExpectUnresolved)
}

// renderGenericReturn returns a concrete literal through a bare `dict`
// annotation and pulls typed locals out of the opaque result.
func renderGenericReturn(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "def fetch_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return %s\n\n\n", dictLiteral(spec.Key, spec.Branches, spec.Index))
	fmt.Fprintf(&b, "def unpack_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    d = fetch_%s_%d()\n", spec.Ident, spec.Index)

	n := clampEntries(spec.Key, spec.Branches)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "    field_%d = d[%s]\n", i, keyLiteral(spec.Key, i+spec.Index))
	}

	b.WriteString("    return (")

	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "field_%d", i)
	}

	b.WriteString(")\n")

	return single(spec, b.String(), expectation(spec.Key))
}

// renderMutationThroughRef mutates a dict through an aliased parameter,
// adding keys of the opposite type to the original literal's.
func renderMutationThroughRef(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var b strings.Builder

	fmt.Fprintf(&b, "def mutate_%s_%d(d: dict) -> None:\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		if spec.Key == m.KeyStr {
			fmt.Fprintf(&b, "    d[%d] = %q\n", 900+i, word(i))
		} else {
			fmt.Fprintf(&b, "    d[%q] = %d\n", word(i+4), 900+i)
		}
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "original_%s_%d = %s\n", spec.Ident, spec.Index, dictLiteral(spec.Key, 2, spec.Index))
	fmt.Fprintf(&b, "mutate_%s_%d(original_%s_%d)\n", spec.Ident, spec.Index, spec.Ident, spec.Index)

	return single(spec, b.String(), m.ExpectMixed)
}

// renderCallChain threads one dict through Depth functions; the final hop
// re-assigns into a variable with a conflicting annotation.
func renderCallChain(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	conflicting := m.KeyInt
	if spec.Key == m.KeyInt {
		conflicting = m.KeyStr
	}

	var b strings.Builder

	b.WriteString("from typing import Dict\n\n\n")
	fmt.Fprintf(&b, "def stage_0_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return %s\n\n\n", dictLiteral(spec.Key, 2, spec.Index))

	for i := 1; i < spec.Depth; i++ {
		fmt.Fprintf(&b, "def stage_%d_%s_%d(d: dict) -> dict:\n", i, spec.Ident, spec.Index)
		fmt.Fprintf(&b, "    d[%s] = %d\n", keyLiteral(spec.Key, spec.Index+i+2), i)
		b.WriteString("    return d\n\n\n")
	}

	fmt.Fprintf(&b, "def pipeline_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    data = stage_0_%s_%d()\n", spec.Ident, spec.Index)

	for i := 1; i < spec.Depth; i++ {
		fmt.Fprintf(&b, "    data = stage_%d_%s_%d(data)\n", i, spec.Ident, spec.Index)
	}

	fmt.Fprintf(&b, "    final: Dict[%s, int] = data\n", pyType(conflicting))
	b.WriteString("    return final\n")

	return single(spec, b.String(), m.ExpectUnresolved)
}

// renderConditionalReturn returns literals of different key types from the
// branches of one function.
func renderConditionalReturn(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kinds := []m.KeyType{spec.Key, m.KeyInt, m.KeyTuple, m.KeyFloat}
	if spec.Key == m.KeyInt {
		kinds[1] = m.KeyStr
	}

	var b strings.Builder

	fmt.Fprintf(&b, "def select_%s_%d(mode: int) -> dict:\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		cond := "if"
		if i > 0 {
			cond = "elif"
		}

		if i == spec.Branches-1 {
			b.WriteString("    else:\n")
		} else {
			fmt.Fprintf(&b, "    %s mode == %d:\n", cond, i)
		}

		fmt.Fprintf(&b, "        return %s\n", dictLiteral(kinds[i], 2, spec.Index+i))
	}

	b.WriteString("\n\n")

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "choice_%s_%d_%d = select_%s_%d(%d)\n",
			spec.Ident, spec.Index, i, spec.Ident, spec.Index, i)
	}

	return single(spec, b.String(), m.ExpectMixed)
}

// renderClosureCapture captures an empty dict in nested functions that write
// keys of the axis type.
func renderClosureCapture(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	keyExpr := "name"
	param := "name: str"

	if spec.Key == m.KeyInt {
		keyExpr = "slot"
		param = "slot: int"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "def make_counter_%s_%d():\n", spec.Ident, spec.Index)
	b.WriteString("    counts = {}\n\n")
	fmt.Fprintf(&b, "    def bump(%s) -> int:\n", param)
	fmt.Fprintf(&b, "        if %s not in counts:\n", keyExpr)
	fmt.Fprintf(&b, "            counts[%s] = 0\n", keyExpr)
	fmt.Fprintf(&b, "        counts[%s] = counts[%s] + 1\n", keyExpr, keyExpr)
	fmt.Fprintf(&b, "        return counts[%s]\n\n", keyExpr)

	if spec.Branches > 1 {
		b.WriteString("    def snapshot() -> dict:\n")
		b.WriteString("        return counts.copy()\n\n")
		b.WriteString("    return bump, snapshot\n")
	} else {
		b.WriteString("    return bump\n")
	}

	return single(spec, b.String(), expectation(spec.Key))
}

// renderDefaultArg uses a mutable dict default argument, the classic aliasing
// gotcha, with the axis key type.
func renderDefaultArg(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	keyParam := "key: str"
	if spec.Key == m.KeyInt {
		keyParam = "key: int"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "def add_item_%s_%d(%s, value: int, container: dict = {}) -> dict:\n",
		spec.Ident, spec.Index, keyParam)
	b.WriteString("    container[key] = value\n")
	b.WriteString("    return container\n\n\n")
	fmt.Fprintf(&b, "first_%s_%d = add_item_%s_%d(%s, 1)\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index, keyLiteral(spec.Key, spec.Index))
	fmt.Fprintf(&b, "second_%s_%d = add_item_%s_%d(%s, 2)\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index, keyLiteral(spec.Key, spec.Index+1))

	return single(spec, b.String(), expectation(spec.Key))
}

// renderGeneratorYield yields dicts of rotating key types from a generator.
func renderGeneratorYield(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kinds := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyTuple, m.KeyBool}

	var b strings.Builder

	b.WriteString("from typing import Iterator\n\n\n")
	fmt.Fprintf(&b, "def emit_%s_%d() -> Iterator[dict]:\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "    yield %s\n", dictLiteral(kinds[i%len(kinds)], 2, spec.Index+i))
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "def collect_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return list(emit_%s_%d())\n", spec.Ident, spec.Index)

	return single(spec, b.String(), m.ExpectMixed)
}
