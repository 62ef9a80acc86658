package patterns

import (
	"fmt"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// moduleBoundaryForms maps form names to renderers for the module-boundary
// category. These renderers emit two or three files whose import statements
// reference each other, so the file stems are fixed here rather than derived
// from the content hash.
var moduleBoundaryForms = map[string]renderFunc{
	"shared_definition": renderSharedDefinition,
	"factory_functions": renderFactoryFunctions,
	"alias_export":      renderAliasExport,
	"class_attribute":   renderClassAttribute,
	"reexport_chain":    renderReexportChain,
}

// moduleStem names the part-th module of a variant's file set. The stem doubles
// as the Python module name in import statements.
func moduleStem(spec m.VariantSpec, part byte) string {
	return fmt.Sprintf("module_boundary_%04d_%c", spec.Index, part)
}

// partFile wraps one module body with the variant header and its fixed name.
func partFile(spec m.VariantSpec, part byte, body string) m.ProgramFile {
	return m.ProgramFile{
		Name:    moduleStem(spec, part) + ".py",
		Content: header(spec) + fmt.Sprintf("# part %c\n", part) + body,
	}
}

// renderSharedDefinition defines a mapping in module a and lets module b both
// read and extend it, with the extension keys flipping type for mixed axes.
func renderSharedDefinition(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	defKind := spec.Key
	extKind := spec.Key

	if spec.Key == m.KeyMixed {
		defKind = m.KeyStr
		extKind = m.KeyInt
	}

	var a strings.Builder

	fmt.Fprintf(&a, "REGISTRY = %s\n", dictLiteral(defKind, spec.Branches, spec.Index))

	var b strings.Builder

	fmt.Fprintf(&b, "from %s import REGISTRY\n\n\n", moduleStem(spec, 'a'))
	fmt.Fprintf(&b, "def lookup_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return REGISTRY[%s]\n\n\n", keyLiteral(defKind, spec.Index))
	fmt.Fprintf(&b, "def extend_%s_%d():\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "    REGISTRY[%s] = %s\n",
			keyLiteral(extKind, spec.Index+spec.Branches+i), valueLiteral(spec.Index+i))
	}

	return []m.ProgramFile{
		partFile(spec, 'a', a.String()),
		partFile(spec, 'b', b.String()),
	}, expectation(spec.Key)
}

// renderFactoryFunctions exports a factory returning an untyped dict from
// module a; module b consumes it through a typed annotation.
func renderFactoryFunctions(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kind := spec.Key
	if kind == m.KeyMixed {
		kind = m.KeyStr
	}

	var a strings.Builder

	fmt.Fprintf(&a, "def make_config_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&a, "    return %s\n\n\n", dictLiteral(spec.Key, 3, spec.Index))
	fmt.Fprintf(&a, "def make_empty_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	a.WriteString("    return {}\n")

	var b strings.Builder

	b.WriteString("from typing import Dict\n\n")
	fmt.Fprintf(&b, "from %s import make_config_%s_%d, make_empty_%s_%d\n\n\n",
		moduleStem(spec, 'a'), spec.Ident, spec.Index, spec.Ident, spec.Index)
	fmt.Fprintf(&b, "config_%s_%d: Dict[%s, object] = make_config_%s_%d()\n",
		spec.Ident, spec.Index, pyType(kind), spec.Ident, spec.Index)
	fmt.Fprintf(&b, "scratch_%s_%d = make_empty_%s_%d()\n",
		spec.Ident, spec.Index, spec.Ident, spec.Index)
	fmt.Fprintf(&b, "scratch_%s_%d[%s] = config_%s_%d[%s]\n",
		spec.Ident, spec.Index, keyLiteral(kind, spec.Index+1),
		spec.Ident, spec.Index, keyLiteral(spec.Key, spec.Index))

	return []m.ProgramFile{
		partFile(spec, 'a', a.String()),
		partFile(spec, 'b', b.String()),
	}, expectation(spec.Key)
}

// renderAliasExport imports a mapping under an alias, hiding the definition
// site from local inspection.
func renderAliasExport(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	var a strings.Builder

	fmt.Fprintf(&a, "_defaults_%s_%d = %s\n\n\n", spec.Ident, spec.Index, dictLiteral(spec.Key, 3, spec.Index))
	fmt.Fprintf(&a, "exported_%s_%d = _defaults_%s_%d\n", spec.Ident, spec.Index, spec.Ident, spec.Index)

	var b strings.Builder

	fmt.Fprintf(&b, "from %s import exported_%s_%d as table_%s_%d\n\n\n",
		moduleStem(spec, 'a'), spec.Ident, spec.Index, spec.Ident, spec.Index)
	fmt.Fprintf(&b, "def first_%s_%d():\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return table_%s_%d[%s]\n\n\n", spec.Ident, spec.Index, keyLiteral(spec.Key, spec.Index))
	fmt.Fprintf(&b, "def count_%s_%d() -> int:\n", spec.Ident, spec.Index)
	fmt.Fprintf(&b, "    return len(table_%s_%d)\n", spec.Ident, spec.Index)

	return []m.ProgramFile{
		partFile(spec, 'a', a.String()),
		partFile(spec, 'b', b.String()),
	}, expectation(spec.Key)
}

// renderClassAttribute shares a class-level dict attribute across modules;
// the consumer writes int keys next to the definition's string keys.
func renderClassAttribute(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	name := className(spec)

	var a strings.Builder

	fmt.Fprintf(&a, "class %s:\n", name)
	fmt.Fprintf(&a, "    defaults = %s\n\n", dictLiteral(m.KeyStr, 2, spec.Index))
	a.WriteString("    def __init__(self):\n")
	a.WriteString("        self.local = {}\n")

	var b strings.Builder

	fmt.Fprintf(&b, "from %s import %s\n\n\n", moduleStem(spec, 'a'), name)
	fmt.Fprintf(&b, "def widen_%s_%d():\n", spec.Ident, spec.Index)

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "    %s.defaults[%d] = %q\n", name, 100+i, word(spec.Index+i))
	}

	fmt.Fprintf(&b, "    return %s.defaults\n", name)

	return []m.ProgramFile{
		partFile(spec, 'a', a.String()),
		partFile(spec, 'b', b.String()),
	}, m.ExpectMixed
}

// renderReexportChain threads a mapping through an intermediate re-export
// module so the consumer is two hops from the definition.
func renderReexportChain(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation) {
	kinds := []m.KeyType{m.KeyStr, m.KeyInt, m.KeyFloat}

	var a strings.Builder

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&a, "table_%s_%d_%d = %s\n",
			spec.Ident, spec.Index, i, dictLiteral(kinds[i%len(kinds)], 2, spec.Index+i))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "from %s import (\n", moduleStem(spec, 'a'))

	for i := 0; i < spec.Branches; i++ {
		fmt.Fprintf(&b, "    table_%s_%d_%d,\n", spec.Ident, spec.Index, i)
	}

	b.WriteString(")\n\n\n")
	fmt.Fprintf(&b, "published_%s_%d = table_%s_%d_0\n", spec.Ident, spec.Index, spec.Ident, spec.Index)

	var c strings.Builder

	fmt.Fprintf(&c, "import %s\n\n\n", moduleStem(spec, 'b'))
	fmt.Fprintf(&c, "def merge_%s_%d() -> dict:\n", spec.Ident, spec.Index)
	c.WriteString("    combined = {}\n")
	fmt.Fprintf(&c, "    combined.update(%s.published_%s_%d)\n", moduleStem(spec, 'b'), spec.Ident, spec.Index)

	for i := 1; i < spec.Branches; i++ {
		fmt.Fprintf(&c, "    combined.update(%s.table_%s_%d_%d)\n",
			moduleStem(spec, 'b'), spec.Ident, spec.Index, i)
	}

	c.WriteString("    return combined\n")

	return []m.ProgramFile{
		partFile(spec, 'a', a.String()),
		partFile(spec, 'b', b.String()),
		partFile(spec, 'c', c.String()),
	}, m.ExpectMixed
}
