package cdf

import (
	"fmt"
	"math"
	"strings"

	"github.com/dekarrin/cmdtree/tree"
)

// topLevel is the top-level structure containing all keys in a complete CDF
// file.
type topLevel struct {
	Format   string  `toml:"format"`
	Type     string  `toml:"type"`
	Aliases  []alias `toml:"alias"`
	Commands []node  `toml:"command"`
}

type alias struct {
	Alias     string `toml:"alias"`
	Expansion string `toml:"expansion"`
}

type node struct {
	Literal    string `toml:"literal"`
	Argument   string `toml:"argument"`
	Parser     string `toml:"parser"`
	Tag        string `toml:"tag"`
	Handler    string `toml:"handler"`
	Permission string `toml:"permission"`

	// Min and Max are decoded as whatever TOML gives and checked against
	// the parser kind afterwards.
	Min interface{} `toml:"min"`
	Max interface{} `toml:"max"`

	Children []node `toml:"node"`
}

func (tn node) toNode() (Node, error) {
	var n Node

	switch {
	case tn.Literal != "" && tn.Argument != "":
		return n, fmt.Errorf("only one of 'literal' or 'argument' can be set")
	case tn.Literal != "":
		n.Literal = true
		n.Name = tn.Literal
	case tn.Argument != "":
		n.Name = tn.Argument
	default:
		return n, fmt.Errorf("one of 'literal' or 'argument' must be set")
	}

	if strings.ContainsAny(n.Name, " \t\n\f\r") {
		return n, fmt.Errorf("%q: name cannot contain whitespace", n.Name)
	}

	n.Handler = tn.Handler
	n.Permission = strings.ToLower(tn.Permission)

	if n.Literal {
		if tn.Parser != "" || tn.Tag != "" || tn.Min != nil || tn.Max != nil {
			return n, fmt.Errorf("%q: literals cannot have 'parser', 'tag', 'min' or 'max'", n.Name)
		}
	} else {
		p, err := tn.toParser()
		if err != nil {
			return n, fmt.Errorf("%q: %w", n.Name, err)
		}
		n.Parser = p
	}

	for i, c := range tn.Children {
		child, err := c.toNode()
		if err != nil {
			return n, fmt.Errorf("%q: node #%d: %w", n.Name, i+1, err)
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}

func (tn node) toParser() (tree.Parser, error) {
	var p tree.Parser

	switch strings.ToLower(tn.Parser) {
	case "":
		p.Kind = tree.ParseString
	case "unsupported":
		if tn.Tag == "" {
			return p, fmt.Errorf("'tag' must be set for unsupported parser")
		}
		p.Kind = tree.ParseUnsupported
		p.Tag = tn.Tag
	default:
		kind, err := tree.ParseParserKind(tn.Parser)
		if err != nil {
			return p, err
		}
		p.Kind = kind
	}

	if tn.Tag != "" && p.Kind != tree.ParseUnsupported {
		return p, fmt.Errorf("'tag' is only for unsupported parser")
	}

	if !p.Kind.Numeric() {
		if tn.Min != nil || tn.Max != nil {
			return p, fmt.Errorf("%s parser cannot have 'min' or 'max'", p.Kind)
		}
		return p, nil
	}

	var err error
	p.Min, err = toBound(p.Kind, tn.Min)
	if err != nil {
		return p, fmt.Errorf("min: %w", err)
	}
	p.Max, err = toBound(p.Kind, tn.Max)
	if err != nil {
		return p, fmt.Errorf("max: %w", err)
	}

	if p.Min.Valid && p.Max.Valid {
		if (p.Min.Int > p.Max.Int) || (p.Min.Float > p.Max.Float) {
			return p, fmt.Errorf("min is greater than max")
		}
	}

	return p, nil
}

func toBound(kind tree.ParserKind, v interface{}) (tree.Bound, error) {
	if v == nil {
		return tree.Bound{}, nil
	}

	switch kind {
	case tree.ParseInteger, tree.ParseLong:
		i, ok := v.(int64)
		if !ok {
			return tree.Bound{}, fmt.Errorf("must be an integer")
		}
		if kind == tree.ParseInteger && (i < math.MinInt32 || i > math.MaxInt32) {
			return tree.Bound{}, fmt.Errorf("%d is out of range for integer", i)
		}
		return tree.Bound{Valid: true, Int: i}, nil
	default:
		switch f := v.(type) {
		case int64:
			return tree.Bound{Valid: true, Float: float64(f)}, nil
		case float64:
			return tree.Bound{Valid: true, Float: f}, nil
		default:
			return tree.Bound{}, fmt.Errorf("must be a number")
		}
	}
}
