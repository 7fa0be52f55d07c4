package tree

// Scope is a cursor used to build a Tree. It points at a "current" node; new
// literals and arguments are added as children of that node, and Handler binds
// to it. The LiteralWith and ArgumentWith methods move the cursor into the node
// they create for as long as their function runs and then put it back.
//
// The first error encountered while building is kept and returned by Err. Once
// a Scope has an error, every later call on it does nothing.
//
// Scopes are for the single-threaded setup phase only.
type Scope[C any] struct {
	tree    *Tree[C]
	current NodeID
	parents []NodeID
	err     error
}

// RootScope returns a Scope whose current node is the root of the tree. It can
// be used to bind a handler for empty input or to add top-level commands.
func (t *Tree[C]) RootScope() *Scope[C] {
	return &Scope[C]{tree: t, current: RootID}
}

// Begin adds a top-level literal command called name and returns a Scope whose
// current node is that literal. Calling End on the returned Scope moves it back
// to the root.
func (t *Tree[C]) Begin(name string) *Scope[C] {
	s := t.RootScope()
	id, err := t.AddLiteral(RootID, name)
	if err != nil {
		s.err = err
		return s
	}
	s.parents = append(s.parents, s.current)
	s.current = id
	return s
}

// Command adds a top-level literal command called name and calls f with a
// Scope positioned on it. It returns the first error that occurred while
// building.
func (t *Tree[C]) Command(name string, f func(s *Scope[C])) error {
	return t.RootScope().LiteralWith(name, f).Err()
}

// Tree returns the tree being built.
func (s *Scope[C]) Tree() *Tree[C] {
	return s.tree
}

// Current returns the node that new children are added to.
func (s *Scope[C]) Current() NodeID {
	return s.current
}

// Err returns the first error that occurred while building with s, if any.
func (s *Scope[C]) Err() error {
	return s.err
}

// Literal adds a literal keyword as a child of the current node. The current
// node is not changed.
func (s *Scope[C]) Literal(name string) *Scope[C] {
	return s.LiteralWith(name, nil)
}

// LiteralWith adds a literal keyword as a child of the current node, then calls
// f with the new literal as the current node. When f returns, the current node
// is restored to what it was before the call. f is not called if the literal
// could not be added.
func (s *Scope[C]) LiteralWith(name string, f func(s *Scope[C])) *Scope[C] {
	if s.err != nil {
		return s
	}
	id, err := s.tree.AddLiteral(s.current, name)
	if err != nil {
		s.err = err
		return s
	}
	return s.enter(id, f)
}

// Argument adds a typed argument as a child of the current node. The current
// node is not changed.
func (s *Scope[C]) Argument(name string, p Parser) *Scope[C] {
	return s.ArgumentWith(name, p, nil)
}

// ArgumentWith adds a typed argument as a child of the current node, then
// calls f with the new argument as the current node. When f returns, the
// current node is restored to what it was before the call. f is not called if
// the argument could not be added.
func (s *Scope[C]) ArgumentWith(name string, p Parser, f func(s *Scope[C])) *Scope[C] {
	if s.err != nil {
		return s
	}
	id, err := s.tree.AddArgument(s.current, name, p)
	if err != nil {
		s.err = err
		return s
	}
	return s.enter(id, f)
}

// Handler binds h to the current node. If the node already has a handler it
// is replaced; the last one bound wins.
func (s *Scope[C]) Handler(h Handler[C]) *Scope[C] {
	if s.err != nil {
		return s
	}
	if err := s.tree.SetHandler(s.current, h); err != nil {
		s.err = err
	}
	return s
}

// End moves the current node back to the node that was current before the
// most recent Begin or *With call that is still open. At the outermost level
// it does nothing.
func (s *Scope[C]) End() *Scope[C] {
	if n := len(s.parents); n > 0 {
		s.current = s.parents[n-1]
		s.parents = s.parents[:n-1]
	}
	return s
}

func (s *Scope[C]) enter(id NodeID, f func(s *Scope[C])) *Scope[C] {
	if f == nil {
		return s
	}

	// f is free to call End or nest further on s, so the exact stack is
	// saved rather than relying on f to leave it balanced.
	savedCurrent := s.current
	savedParents := make([]NodeID, len(s.parents))
	copy(savedParents, s.parents)

	s.parents = append(s.parents, s.current)
	s.current = id

	f(s)

	s.current = savedCurrent
	s.parents = savedParents
	return s
}
