package tree

import (
	"fmt"
	"log"
)

// PacketNode is one entry of a Packet. Children and Parent are indexes into
// the Packet's Nodes.
type PacketNode struct {
	Kind       NodeKind `json:"kind"`
	Name       string   `json:"name,omitempty"`
	Parser     *Parser  `json:"parser,omitempty"`
	Executable bool     `json:"executable"`
	Children   []int    `json:"children"`

	// Parent is -1 for the root.
	Parent int `json:"parent"`
}

// Packet is a flat description of a command tree for a client. Entry Root (0)
// is always the root node and every other entry is reachable from it through
// Children.
type Packet struct {
	Nodes []PacketNode `json:"nodes"`
	Root  int          `json:"root"`
}

// Serialize converts t into a Packet. The tree is walked depth-first using a
// stack, so entries are in a valid depth-first numbering but not necessarily
// in insertion order.
//
// A branch deeper than MaxDepth is not descended into; a warning is logged and
// the rest of the tree is still serialized.
func Serialize[C any](t *Tree[C]) Packet {
	type frame struct {
		depth int
		index int
		id    NodeID
	}

	pkt := Packet{
		Nodes: []PacketNode{{
			Kind:       KindRoot,
			Executable: t.Executable(RootID),
			Children:   []int{},
			Parent:     -1,
		}},
		Root: 0,
	}

	stack := []frame{{depth: 0, index: 0, id: RootID}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= MaxDepth {
			log.Printf("WARN  command tree depth exceeded at %q; skipping subtree. Circular reference?", t.Usage(top.id))
			continue
		}

		for _, child := range t.Children(top.id) {
			n := t.Node(child)
			idx := len(pkt.Nodes)

			pn := PacketNode{
				Kind:       n.Kind,
				Name:       n.Name,
				Executable: t.Executable(child),
				Children:   []int{},
				Parent:     top.index,
			}
			if n.Kind == KindArgument {
				p := n.Parser
				pn.Parser = &p
			}

			pkt.Nodes = append(pkt.Nodes, pn)
			pkt.Nodes[top.index].Children = append(pkt.Nodes[top.index].Children, idx)

			stack = append(stack, frame{depth: top.depth + 1, index: idx, id: child})
		}
	}

	return pkt
}

// Validate checks that the packet is internally consistent: entry Root is the
// root, every child index is in range, and every child names the entry listing
// it as its parent.
func (pkt Packet) Validate() error {
	if len(pkt.Nodes) < 1 {
		return fmt.Errorf("packet has no nodes")
	}
	if pkt.Root != 0 {
		return fmt.Errorf("root index is %d, not 0", pkt.Root)
	}
	if pkt.Nodes[0].Kind != KindRoot {
		return fmt.Errorf("node 0 is a %s, not the root", pkt.Nodes[0].Kind)
	}
	if pkt.Nodes[0].Parent != -1 {
		return fmt.Errorf("root has parent %d", pkt.Nodes[0].Parent)
	}

	for i, n := range pkt.Nodes {
		if i > 0 {
			if n.Kind == KindRoot {
				return fmt.Errorf("node %d: extra root node", i)
			}
			if n.Name == "" {
				return fmt.Errorf("node %d: empty name", i)
			}
		}
		for _, c := range n.Children {
			if c <= 0 || c >= len(pkt.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if pkt.Nodes[c].Parent != i {
				return fmt.Errorf("node %d: child %d has parent %d", i, c, pkt.Nodes[c].Parent)
			}
		}
	}

	return nil
}

// Find returns the index of the entry reached by following the given literal
// names from the root, or -1 if there is no such entry. Names are matched
// without regard to ASCII case.
func (pkt Packet) Find(path ...string) int {
	cur := pkt.Root
	for _, name := range path {
		next := -1
		for _, c := range pkt.Nodes[cur].Children {
			if equalFoldASCII(pkt.Nodes[c].Name, name) {
				next = c
				break
			}
		}
		if next < 0 {
			return -1
		}
		cur = next
	}
	return cur
}
