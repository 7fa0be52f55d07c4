package input

import (
	"github.com/chzyer/readline"
	"github.com/dekarrin/cmdtree/tree"
)

// Completer creates a tab completer for the commands described by pkt. Only
// literal words are offered, and completion stops at the first argument since
// an argument has no fixed text to complete.
func Completer(pkt tree.Packet) *readline.PrefixCompleter {
	if len(pkt.Nodes) < 1 {
		return readline.NewPrefixCompleter()
	}
	return readline.NewPrefixCompleter(completerItems(pkt, pkt.Root, 0)...)
}

func completerItems(pkt tree.Packet, idx int, depth int) []readline.PrefixCompleterInterface {
	if depth >= tree.MaxDepth {
		return nil
	}

	var items []readline.PrefixCompleterInterface
	for _, c := range pkt.Nodes[idx].Children {
		n := pkt.Nodes[c]
		if n.Kind != tree.KindLiteral {
			continue
		}
		items = append(items, readline.PcItem(n.Name, completerItems(pkt, c, depth+1)...))
	}
	return items
}
