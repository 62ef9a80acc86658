package domain

import (
	"fmt"
	"strings"
)

// ErrUnparseable reports a synthesizer output that fails the structural
// smoke check. This is an internal defect in a renderer, not a runtime
// condition: the driver logs it loudly and fails the run's exit status.
var ErrUnparseable = fmt.Errorf("synthesized source failed structural check")

// CheckPython is a structural smoke check over generated Python source. It is
// not a full parser (the grammar of the emitted programs is narrow and fixed
// by the renderers): it verifies balanced brackets and string literals, and
// that every block header (a line ending with ':' at bracket depth zero) is
// followed by a more deeply indented body.
func CheckPython(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("%w: empty source", ErrUnparseable)
	}

	lines := strings.Split(src, "\n")

	var stack []byte

	type header struct {
		line   int
		indent int
	}

	var pending *header

	for num, line := range lines {
		depthBefore := len(stack)

		code, err := stripLine(line, &stack)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrUnparseable, num+1, err)
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		indent := indentOf(line)

		if pending != nil && depthBefore == 0 {
			if indent <= pending.indent {
				return fmt.Errorf("%w: line %d: block header on line %d has no indented body",
					ErrUnparseable, num+1, pending.line)
			}

			pending = nil
		}

		if depthBefore == 0 && len(stack) == 0 && strings.HasSuffix(trimmed, ":") {
			pending = &header{line: num + 1, indent: indent}
		}
	}

	if len(stack) != 0 {
		return fmt.Errorf("%w: unbalanced %q", ErrUnparseable, stack[len(stack)-1])
	}

	if pending != nil {
		return fmt.Errorf("%w: block header on line %d has no body", ErrUnparseable, pending.line)
	}

	return nil
}

// stripLine consumes one physical line, updating the bracket stack and
// skipping string literals and comments. It returns the line with strings
// replaced by placeholders so the caller can reason about trailing colons.
//
// Triple-quoted strings are not needed by any renderer and are rejected, which
// keeps the scanner line-local.
func stripLine(line string, stack *[]byte) (string, error) {
	var out strings.Builder

	i := 0
	for i < len(line) {
		ch := line[i]

		switch ch {
		case '#':
			return out.String(), nil

		case '\'', '"':
			if i+2 < len(line) && line[i+1] == ch && line[i+2] == ch {
				return "", fmt.Errorf("triple-quoted string")
			}

			end, err := scanString(line, i)
			if err != nil {
				return "", err
			}

			out.WriteByte('s')

			i = end

			continue

		case '(', '[', '{':
			*stack = append(*stack, ch)

		case ')', ']', '}':
			if len(*stack) == 0 {
				return "", fmt.Errorf("unexpected %q", ch)
			}

			open := (*stack)[len(*stack)-1]
			if !matches(open, ch) {
				return "", fmt.Errorf("%q closed by %q", open, ch)
			}

			*stack = (*stack)[:len(*stack)-1]
		}

		out.WriteByte(ch)
		i++
	}

	return out.String(), nil
}

// scanString returns the index just past the closing quote.
func scanString(line string, start int) (int, error) {
	quote := line[start]

	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("unterminated string")
}

func matches(open, close byte) bool {
	switch open {
	case '(':
		return close == ')'
	case '[':
		return close == ']'
	case '{':
		return close == '}'
	}

	return false
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}

	return n
}
