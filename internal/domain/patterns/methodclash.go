package patterns

import (
	"fmt"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// methodClashForms maps form names to renderers for the method-clash category:
// same-named to_dict/from_dict conversions whose mapping types disagree.
var methodClashForms = map[string]renderFunc{
	"heterogeneous_to_dict": renderHeterogeneousToDict,
	"untyped_from_dict":     renderUntypedFromDict,
	"inheritance_conflict":  renderInheritanceConflict,
	"protocol_mismatch":     renderProtocolMismatch,
	"dict_subclass":         renderDictSubclass,
	"factory_methods":       renderFactoryMethods,
}

// className derives a CamelCase class name from the variant's ident stem.
func className(spec m.VariantSpec) string {
	var b strings.Builder

	for _, part := range strings.Split(spec.Ident, "_") {
		if part == "" {
			continue
		}

		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}

	fmt.Fprintf(&b, "%d", spec.Index)

	return b.String()
}

// renderHeterogeneousToDict gives Branches sibling classes a to_dict method
// each returning a different key type, then collects them through one list.
func renderHeterogeneousToDict(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kinds := []m.KeyType{spec.Key, m.KeyInt, m.KeyTuple, m.KeyFloat}
	if spec.Key == m.KeyInt {
		kinds[1] = m.KeyStr
	}

	base := className(spec)

	var b strings.Builder

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "class %s%c:\n", base, 'A'+i)
		fmt.Fprintf(&b, "    def __init__(self, seed: int):\n")
		b.WriteString("        self.seed = seed\n\n")
		b.WriteString("    def to_dict(self) -> dict:\n")
		fmt.Fprintf(&b, "        return %s\n\n\n", dictLiteral(kinds[i%len(kinds)], 2, spec.Index+i))
	}

	fmt.Fprintf(&b, "def dump_all_%s_%d():\n", spec.Ident, spec.Index)
	b.WriteString("    items = [")

	for i := 0; i < spec.Branches; i++ {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s%c(%d)", base, 'A'+i, i)
	}

	b.WriteString("]\n")
	b.WriteString("    return [item.to_dict() for item in items]\n")

	return single(spec, b.String(), m.ExpectMixed)
}

// renderUntypedFromDict builds instances from an untyped mapping parameter
// whose call sites pass literals of the axis key type.
func renderUntypedFromDict(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	name := className(spec)

	var b strings.Builder

	fmt.Fprintf(&b, "class %s:\n", name)
	b.WriteString("    def __init__(self, first, second):\n")
	b.WriteString("        self.first = first\n")
	b.WriteString("        self.second = second\n\n")
	b.WriteString("    @classmethod\n")
	fmt.Fprintf(&b, "    def from_dict(cls, data) -> \"%s\":\n", name)
	fmt.Fprintf(&b, "        return cls(data[%s], data[%s])\n\n\n",
		keyLiteral(spec.Key, spec.Index), keyLiteral(spec.Key, spec.Index+1))

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "loaded_%s_%d_%d = %s.from_dict(%s)\n",
			spec.Ident, spec.Index, i, name, dictLiteral(spec.Key, 2+i, spec.Index))
	}

	return single(spec, b.String(), expectation(spec.Key))
}

// renderInheritanceConflict overrides to_dict down a Depth-level class chain,
// flipping the key type at the bottom.
func renderInheritanceConflict(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	flipped := m.KeyInt
	if spec.Key == m.KeyInt {
		flipped = m.KeyStr
	}

	base := className(spec)

	var b strings.Builder

	fmt.Fprintf(&b, "class %sBase:\n", base)
	b.WriteString("    def to_dict(self) -> dict:\n")
	fmt.Fprintf(&b, "        return %s\n\n\n", dictLiteral(spec.Key, 2, spec.Index))

	parent := base + "Base"
	for i := 1; i <= spec.Depth; i++ {
		child := fmt.Sprintf("%sLevel%d", base, i)

		fmt.Fprintf(&b, "class %s(%s):\n", child, parent)

		if i == spec.Depth {
			b.WriteString("    def to_dict(self) -> dict:\n")
			b.WriteString("        merged = super().to_dict()\n")
			fmt.Fprintf(&b, "        merged[%s] = %s\n",
				keyLiteral(flipped, spec.Index+3), valueLiteral(spec.Index+3))
			b.WriteString("        return merged\n\n\n")
		} else {
			b.WriteString("    pass\n\n\n")
		}

		parent = child
	}

	fmt.Fprintf(&b, "snapshot_%s_%d = %s().to_dict()\n", spec.Ident, spec.Index, parent)

	return single(spec, b.String(), m.ExpectMixed)
}

// renderProtocolMismatch consumes two unrelated classes through the shared
// to_dict name even though their mapping types disagree.
func renderProtocolMismatch(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	other := m.KeyInt
	if spec.Key == m.KeyInt {
		other = m.KeyStr
	}

	base := className(spec)

	var b strings.Builder

	fmt.Fprintf(&b, "class %sRecord:\n", base)
	b.WriteString("    def to_dict(self) -> dict:\n")
	fmt.Fprintf(&b, "        return %s\n\n\n", dictLiteral(spec.Key, 2, spec.Index))
	fmt.Fprintf(&b, "class %sIndex:\n", base)
	b.WriteString("    def to_dict(self) -> dict:\n")
	fmt.Fprintf(&b, "        return %s\n\n\n", dictLiteral(other, 2, spec.Index+1))
	fmt.Fprintf(&b, "def serialize_%s_%d(source) -> dict:\n", spec.Ident, spec.Index)
	b.WriteString("    return source.to_dict()\n\n\n")
	fmt.Fprintf(&b, "record_%s_%d = serialize_%s_%d(%sRecord())\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index, base)
	fmt.Fprintf(&b, "index_%s_%d = serialize_%s_%d(%sIndex())\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index, base)

	return single(spec, b.String(), m.ExpectUnresolved)
}

// renderDictSubclass subclasses dict directly and writes keys of rotating
// types through the inherited interface.
func renderDictSubclass(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	name := className(spec)
	kinds := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat}

	var b strings.Builder

	fmt.Fprintf(&b, "class %s(dict):\n", name)
	b.WriteString("    def record(self, key, value) -> None:\n")
	b.WriteString("        self[key] = value\n\n\n")
	fmt.Fprintf(&b, "store_%s_%d = %s()\n", spec.Ident, spec.Index, name)

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "store_%s_%d.record(%s, %s)\n",
			spec.Ident, spec.Index, keyLiteral(kinds[i%len(kinds)], spec.Index+i), valueLiteral(spec.Index+i))
	}

	return single(spec, b.String(), m.ExpectMixed)
}

// renderFactoryMethods exposes Branches alternative constructors on one class,
// each parsing a mapping with a different key type.
func renderFactoryMethods(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	name := className(spec)
	kinds := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyTuple, m.KeyFloat, m.KeyBool}

	var b strings.Builder

	fmt.Fprintf(&b, "class %s:\n", name)
	b.WriteString("    def __init__(self, payload: dict):\n")
	b.WriteString("        self.payload = payload\n\n")

	for i := 0; i < spec.Branches; i++ {
		kind := kinds[i%len(kinds)]

		b.WriteString("    @classmethod\n")
		fmt.Fprintf(&b, "    def from_%s(cls, value: int) -> \"%s\":\n", kind, name)
		fmt.Fprintf(&b, "        return cls(%s)\n\n", dictLiteral(kind, 2, spec.Index+i))
	}

	b.WriteString("\n")

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "made_%s_%d_%d = %s.from_%s(%d)\n",
			spec.Ident, spec.Index, i, name, kinds[i%len(kinds)], i)
	}

	return single(spec, b.String(), m.ExpectMixed)
}
