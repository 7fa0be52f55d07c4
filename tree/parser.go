package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParserKind is the type of conversion an argument node applies to a token.
type ParserKind int

const (
	ParseString ParserKind = iota
	ParseBool
	ParseInteger
	ParseLong
	ParseFloat
	ParseDouble

	// ParseUnsupported is any parser this engine cannot convert tokens for.
	// It is kept so that it can be described to clients, but an argument with
	// it never matches a token.
	ParseUnsupported
)

func (pk ParserKind) String() string {
	switch pk {
	case ParseString:
		return "string"
	case ParseBool:
		return "bool"
	case ParseInteger:
		return "integer"
	case ParseLong:
		return "long"
	case ParseFloat:
		return "float"
	case ParseDouble:
		return "double"
	case ParseUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("ParserKind(%d)", int(pk))
	}
}

// ParseParserKind gives the ParserKind with the given name. Matching is
// case-insensitive.
func ParseParserKind(s string) (ParserKind, error) {
	switch strings.ToLower(s) {
	case "string", "word":
		return ParseString, nil
	case "bool", "boolean":
		return ParseBool, nil
	case "integer", "int":
		return ParseInteger, nil
	case "long":
		return ParseLong, nil
	case "float":
		return ParseFloat, nil
	case "double":
		return ParseDouble, nil
	default:
		return ParseUnsupported, fmt.Errorf("not a known parser kind: %q", s)
	}
}

// Numeric returns whether the kind takes numeric bounds.
func (pk ParserKind) Numeric() bool {
	return pk == ParseInteger || pk == ParseLong || pk == ParseFloat || pk == ParseDouble
}

// Bound is an optional numeric limit on an argument. Integer and Long parsers
// use Int; Float and Double parsers use Float.
//
// Bounds are hints for clients only. They are never checked against parsed
// values during dispatch.
type Bound struct {
	Valid bool    `json:"valid"`
	Int   int64   `json:"int,omitempty"`
	Float float64 `json:"float,omitempty"`
}

// Parser describes how an argument converts a token into a Value.
type Parser struct {
	Kind ParserKind `json:"kind"`
	Min  Bound      `json:"min"`
	Max  Bound      `json:"max"`

	// Tag names the parser for ParseUnsupported kinds.
	Tag string `json:"tag,omitempty"`
}

// String creates a Parser that accepts any single token verbatim.
func String() Parser { return Parser{Kind: ParseString} }

// Bool creates a Parser that accepts exactly "true" or "false".
func Bool() Parser { return Parser{Kind: ParseBool} }

// Integer creates an unbounded 32-bit integer Parser.
func Integer() Parser { return Parser{Kind: ParseInteger} }

// IntegerRange creates a 32-bit integer Parser hinting the given bounds.
func IntegerRange(min, max int32) Parser {
	return Parser{Kind: ParseInteger, Min: intBound(int64(min)), Max: intBound(int64(max))}
}

// IntegerFrom creates a 32-bit integer Parser hinting only a lower bound.
func IntegerFrom(min int32) Parser {
	return Parser{Kind: ParseInteger, Min: intBound(int64(min))}
}

// Long creates an unbounded 64-bit integer Parser.
func Long() Parser { return Parser{Kind: ParseLong} }

// LongRange creates a 64-bit integer Parser hinting the given bounds.
func LongRange(min, max int64) Parser {
	return Parser{Kind: ParseLong, Min: intBound(min), Max: intBound(max)}
}

// LongFrom creates a 64-bit integer Parser hinting only a lower bound.
func LongFrom(min int64) Parser {
	return Parser{Kind: ParseLong, Min: intBound(min)}
}

// Float creates an unbounded 32-bit floating point Parser.
func Float() Parser { return Parser{Kind: ParseFloat} }

// FloatRange creates a 32-bit floating point Parser hinting the given bounds.
func FloatRange(min, max float32) Parser {
	return Parser{Kind: ParseFloat, Min: floatBound(float64(min)), Max: floatBound(float64(max))}
}

// FloatFrom creates a 32-bit floating point Parser hinting only a lower bound.
func FloatFrom(min float32) Parser {
	return Parser{Kind: ParseFloat, Min: floatBound(float64(min))}
}

// Double creates an unbounded 64-bit floating point Parser.
func Double() Parser { return Parser{Kind: ParseDouble} }

// DoubleRange creates a 64-bit floating point Parser hinting the given bounds.
func DoubleRange(min, max float64) Parser {
	return Parser{Kind: ParseDouble, Min: floatBound(min), Max: floatBound(max)}
}

// DoubleFrom creates a 64-bit floating point Parser hinting only a lower
// bound.
func DoubleFrom(min float64) Parser {
	return Parser{Kind: ParseDouble, Min: floatBound(min)}
}

// Unsupported creates a Parser for a client-side argument type that this
// engine cannot parse. Arguments using it never match.
func Unsupported(tag string) Parser {
	return Parser{Kind: ParseUnsupported, Tag: tag}
}

func intBound(v int64) Bound {
	return Bound{Valid: true, Int: v}
}

func floatBound(v float64) Bound {
	return Bound{Valid: true, Float: v}
}

// String shows the parser with its bounds, such as "integer(0..)" or
// "double(-1.5..1.5)".
func (p Parser) String() string {
	if p.Kind == ParseUnsupported {
		if p.Tag == "" {
			return p.Kind.String()
		}
		return p.Kind.String() + "(" + p.Tag + ")"
	}
	if !p.Kind.Numeric() || (!p.Min.Valid && !p.Max.Valid) {
		return p.Kind.String()
	}
	return p.Kind.String() + "(" + p.boundString(p.Min) + ".." + p.boundString(p.Max) + ")"
}

func (p Parser) boundString(b Bound) string {
	if !b.Valid {
		return ""
	}
	if p.Kind == ParseInteger || p.Kind == ParseLong {
		return strconv.FormatInt(b.Int, 10)
	}
	return strconv.FormatFloat(b.Float, 'g', -1, 64)
}

// Parse attempts to convert tok into a Value. The bool is false if tok is not
// valid for the parser; this is never an error, as the caller is expected to
// move on to another candidate.
//
// Numbers and booleans follow JSON literal syntax, so "05", "+1" and "TRUE"
// are all rejected while "1e3" is a valid float. Declared bounds are not
// checked.
func (p Parser) Parse(tok string) (Value, bool) {
	switch p.Kind {
	case ParseString:
		return StringValue(tok), true
	case ParseBool:
		var v bool
		if !decodeLiteral(tok, &v) {
			return Value{}, false
		}
		return BoolValue(v), true
	case ParseInteger:
		var v int32
		if !decodeLiteral(tok, &v) {
			return Value{}, false
		}
		return Int32Value(v), true
	case ParseLong:
		var v int64
		if !decodeLiteral(tok, &v) {
			return Value{}, false
		}
		return Int64Value(v), true
	case ParseFloat:
		var v float32
		if !decodeLiteral(tok, &v) {
			return Value{}, false
		}
		return Float32Value(v), true
	case ParseDouble:
		var v float64
		if !decodeLiteral(tok, &v) {
			return Value{}, false
		}
		return Float64Value(v), true
	default:
		return Value{}, false
	}
}

// decodeLiteral reads tok as a single JSON scalar into v. JSON null would
// leave v untouched without an error, so it is refused up front.
func decodeLiteral(tok string, v interface{}) bool {
	if tok == "" || tok == "null" {
		return false
	}
	return json.Unmarshal([]byte(tok), v) == nil
}
