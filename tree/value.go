package tree

import (
	"fmt"
	"strconv"
)

// ValueKind is the runtime type held in a Value.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
)

func (vk ValueKind) String() string {
	switch vk {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(vk))
	}
}

// Value is a single parsed argument. It holds exactly one of a bool, int32,
// int64, float32, float64, or string; Kind tells which. The zero Value is
// invalid.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// BoolValue gives a Value holding b.
func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Int32Value gives a Value holding i.
func Int32Value(i int32) Value { return Value{kind: KindInt32, i: int64(i)} }

// Int64Value gives a Value holding i.
func Int64Value(i int64) Value { return Value{kind: KindInt64, i: i} }

// Float32Value gives a Value holding f.
func Float32Value(f float32) Value { return Value{kind: KindFloat32, f: float64(f)} }

// Float64Value gives a Value holding f.
func Float64Value(f float64) Value { return Value{kind: KindFloat64, f: f} }

// StringValue gives a Value holding s.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the type of data held in the Value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Interface returns the held data as an interface{} of its concrete type, or
// nil for an invalid Value.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.i != 0
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String returns the display form of the held data.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// Scalar is the set of Go types a Value can hold.
type Scalar interface {
	bool | int32 | int64 | float32 | float64 | string
}

func kindOf[T Scalar]() ValueKind {
	var zero T
	switch interface{}(zero).(type) {
	case bool:
		return KindBool
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string:
		return KindString
	default:
		return KindInvalid
	}
}

// As returns the data held in v as a T. The bool is false if v does not hold a
// T; no numeric conversion is ever done.
func As[T Scalar](v Value) (T, bool) {
	var zero T
	if v.kind != kindOf[T]() {
		return zero, false
	}
	t, ok := v.Interface().(T)
	return t, ok
}
