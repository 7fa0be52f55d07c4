package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooManyArguments is returned when more than MaxArguments bindings are
	// pushed into one Args.
	ErrTooManyArguments = errors.New("argument store is full")

	// ErrArgumentNotFound is matched by a LookupError for a name that has no
	// binding.
	ErrArgumentNotFound = errors.New("argument not found")

	// ErrTypeMismatch is matched by a LookupError for a binding whose value is
	// not of the requested type.
	ErrTypeMismatch = errors.New("argument has a different type")
)

// LookupError is returned when a handler asks Args for a binding that is
// absent or holds a different type. Either case means the handler does not
// agree with the tree it was bound to.
type LookupError struct {
	Name string
	Want ValueKind
	Got  ValueKind
	err  error
}

func (e *LookupError) Error() string {
	if errors.Is(e.err, ErrTypeMismatch) {
		return fmt.Sprintf("argument %q: want %s but it is %s", e.Name, e.Want, e.Got)
	}
	return fmt.Sprintf("argument %q: %s", e.Name, e.err)
}

func (e *LookupError) Unwrap() error {
	return e.err
}

type binding struct {
	name  string
	value Value
}

// Args holds the arguments bound during a single dispatch. It has room for
// MaxArguments bindings and never grows past that. Names are compared without
// regard to ASCII case.
//
// An Args is owned by exactly one dispatch at a time. Reset empties it so it
// can serve the next one.
type Args struct {
	bound [MaxArguments]binding
	n     int
}

// Push adds a new binding. It returns ErrTooManyArguments if the store is
// already full; nothing is dropped silently.
func (a *Args) Push(name string, v Value) error {
	if a.n >= MaxArguments {
		return fmt.Errorf("bind %q: %w", name, ErrTooManyArguments)
	}
	a.bound[a.n] = binding{name: name, value: v}
	a.n++
	return nil
}

// Lookup returns the first binding whose name matches. The search is linear;
// a dispatch path is never deep enough for anything else to pay off.
func (a *Args) Lookup(name string) (Value, error) {
	for i := 0; i < a.n; i++ {
		if equalFoldASCII(a.bound[i].name, name) {
			return a.bound[i].value, nil
		}
	}
	return Value{}, &LookupError{Name: name, err: ErrArgumentNotFound}
}

// Get returns the binding for name as a T.
func Get[T Scalar](a *Args, name string) (T, error) {
	var zero T

	v, err := a.Lookup(name)
	if err != nil {
		return zero, err
	}

	t, ok := As[T](v)
	if !ok {
		return zero, &LookupError{Name: name, Want: kindOf[T](), Got: v.Kind(), err: ErrTypeMismatch}
	}
	return t, nil
}

// Has returns whether a binding exists for name.
func (a *Args) Has(name string) bool {
	_, err := a.Lookup(name)
	return err == nil
}

// Len returns the number of bindings.
func (a *Args) Len() int {
	return a.n
}

// Names returns the bound names in the order they were bound.
func (a *Args) Names() []string {
	names := make([]string, a.n)
	for i := 0; i < a.n; i++ {
		names[i] = a.bound[i].name
	}
	return names
}

// At returns the name and value of the i-th binding.
func (a *Args) At(i int) (string, Value) {
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("argument index out of range: %d", i))
	}
	return a.bound[i].name, a.bound[i].value
}

// Reset removes every binding.
func (a *Args) Reset() {
	for i := 0; i < a.n; i++ {
		a.bound[i] = binding{}
	}
	a.n = 0
}

// String gives all bindings in a debug form such as
// {mode: creative, player: Bob}.
func (a *Args) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	for i := 0; i < a.n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.bound[i].name)
		sb.WriteString(": ")
		sb.WriteString(a.bound[i].value.String())
	}
	sb.WriteRune('}')
	return sb.String()
}

// equalFoldASCII is strings.EqualFold restricted to ASCII letters; any other
// byte must match exactly.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
