package tree

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Fprint writes t to w as an indented outline, one node per line. Arguments
// are shown as <name: parser> and nodes with a handler are marked with a
// trailing '*'. Subtrees deeper than MaxDepth are skipped with a warning.
func Fprint[C any](w io.Writer, t *Tree[C]) error {
	return fprintNode(w, t, RootID, 0)
}

// Sprint returns the outline that Fprint would write.
func Sprint[C any](t *Tree[C]) string {
	var sb strings.Builder
	Fprint(&sb, t)
	return sb.String()
}

func fprintNode[C any](w io.Writer, t *Tree[C], id NodeID, depth int) error {
	if depth >= MaxDepth {
		log.Printf("WARN  command tree depth exceeded at %q; skipping subtree. Circular reference?", t.Usage(id))
		return nil
	}

	marker := ""
	if t.Executable(id) {
		marker = "*"
	}

	if _, err := fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), t.Node(id), marker); err != nil {
		return err
	}

	for _, child := range t.Children(id) {
		if err := fprintNode(w, t, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
