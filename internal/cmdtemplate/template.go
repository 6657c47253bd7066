// Package cmdtemplate compiles toolchain description pattern strings like
// "-I%{include_paths}" into a chunk list that can be expanded repeatedly
// against different variable scopes. The grammar is narrow on purpose: a
// literal run of text, or a "%{name}" / "%{name.field.field2}" variable
// reference with an optional dotted accessor into a structure.
package cmdtemplate

import (
	"strings"

	"github.com/buildtool/ccfeatures/internal/variables"
)

type chunkKind int

const (
	chunkLiteral chunkKind = iota
	chunkReference
)

type chunk struct {
	kind     chunkKind
	literal  string
	name     string
	accessor []string
}

// Template is a compiled pattern: an ordered chunk list. Two templates
// compiled from the same pattern string are value-equal by chunk list.
type Template struct {
	pattern string
	chunks  []chunk
}

// Pattern returns the source pattern string the template was compiled
// from.
func (t *Template) Pattern() string {
	return t.pattern
}

// Compile parses pattern into a Template. Parse failures (an unterminated
// "%{", an empty reference, a trailing or doubled "." in an accessor) fail
// with *InvalidConfigurationError.
func Compile(pattern string) (*Template, error) {
	var chunks []chunk
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			chunks = append(chunks, chunk{kind: chunkLiteral, literal: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		if pattern[i] == '%' && i+1 < len(pattern) && pattern[i+1] == '{' {
			end := strings.IndexByte(pattern[i+2:], '}')
			if end < 0 {
				return nil, &InvalidConfigurationError{Pattern: pattern, Reason: "unterminated %{"}
			}
			ref := pattern[i+2 : i+2+end]
			name, accessor, err := parseReference(ref)
			if err != nil {
				return nil, &InvalidConfigurationError{Pattern: pattern, Reason: err.Error()}
			}
			flushLiteral()
			chunks = append(chunks, chunk{kind: chunkReference, name: name, accessor: accessor})
			i += 2 + end + 1
			continue
		}
		literal.WriteByte(pattern[i])
		i++
	}
	flushLiteral()

	return &Template{pattern: pattern, chunks: chunks}, nil
}

func parseReference(ref string) (name string, accessor []string, err error) {
	if ref == "" {
		return "", nil, errEmptyReference
	}
	parts := strings.Split(ref, ".")
	for _, p := range parts {
		if p == "" {
			return "", nil, errMalformedAccessor
		}
	}
	return parts[0], parts[1:], nil
}

// Expand concatenates the expansion of every chunk against scope. A
// reference to an unavailable variable, or one that cannot be coerced to a
// string, fails with *ExpansionFailedError.
func (t *Template) Expand(scope variables.Scope) (string, error) {
	var out strings.Builder
	for _, c := range t.chunks {
		switch c.kind {
		case chunkLiteral:
			out.WriteString(c.literal)
		case chunkReference:
			s, err := t.expandReference(scope, c)
			if err != nil {
				return "", err
			}
			out.WriteString(s)
		}
	}
	return out.String(), nil
}

func (t *Template) expandReference(scope variables.Scope, c chunk) (string, error) {
	v, err := scope.GetVariable(c.name)
	if err != nil {
		return "", &ExpansionFailedError{Pattern: t.pattern, Name: c.name, Reason: err.Error()}
	}
	for _, field := range c.accessor {
		v, err = v.Field(field)
		if err != nil {
			return "", &ExpansionFailedError{Pattern: t.pattern, Name: c.name, Reason: err.Error()}
		}
	}
	s, err := v.AsString()
	if err != nil {
		return "", &ExpansionFailedError{Pattern: t.pattern, Name: c.name, Reason: err.Error()}
	}
	return s, nil
}
