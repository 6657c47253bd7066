// Package expand implements the Expandable Tree: flags, flag groups, flag
// sets, env sets, and env entries, each exposing a single expansion entry
// point rather than a shared polymorphic interface. There is no separate
// single-chunk flag type: every flag, whatever its chunk count, expands
// through the same cmdtemplate.Template path.
package expand

import (
	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/variables"
)

// Flag is a single template that contributes exactly one argument when
// expanded.
type Flag struct {
	template *cmdtemplate.Template
}

// NewFlag wraps a compiled template as a Flag.
func NewFlag(tmpl *cmdtemplate.Template) *Flag {
	return &Flag{template: tmpl}
}

func (f *Flag) expand(scope variables.Scope, out *[]string) error {
	s, err := f.template.Expand(scope)
	if err != nil {
		return err
	}
	*out = append(*out, s)
	return nil
}

// NodeKind tags whether a Node wraps a Flag or a nested FlagGroup.
type NodeKind int

const (
	NodeFlag NodeKind = iota
	NodeGroup
)

// Node is one child of a FlagGroup: either a Flag or a nested FlagGroup,
// never both. This is the tagged variant standing in for what the source
// expresses as a polymorphic Expandable interface.
type Node struct {
	Kind  NodeKind
	Flag  *Flag
	Group *FlagGroup
}

// FlagNode wraps f as a Node.
func FlagNode(f *Flag) Node {
	return Node{Kind: NodeFlag, Flag: f}
}

// GroupNode wraps g as a Node.
func GroupNode(g *FlagGroup) Node {
	return Node{Kind: NodeGroup, Group: g}
}

func (n Node) expand(scope variables.Scope, expander variables.Expander, out *[]string) error {
	switch n.Kind {
	case NodeFlag:
		return n.Flag.expand(scope, out)
	case NodeGroup:
		return n.Group.Expand(scope, expander, out)
	default:
		return nil
	}
}
