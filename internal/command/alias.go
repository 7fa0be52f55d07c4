// Package command handles getting command lines from input sources and
// preparing them for dispatch.
package command

import (
	"fmt"
	"sort"
	"strings"
)

// Aliases maps shorthand forms of the leading words of a command to their
// canonical forms, such as "GMC" to "GAMEMODE CREATIVE" or "?" to "HELP". Keys
// are stored upper case and matched without regard to case.
//
// The zero value is not ready for use; create one with NewAliases.
type Aliases struct {
	table    map[string]string
	maxWords int
}

// NewAliases creates an empty alias table.
func NewAliases() *Aliases {
	return &Aliases{table: map[string]string{}}
}

// Add adds an alias. The alias may be multiple words long; it is normalized to
// single spaces between words. An existing alias with the same words is
// replaced.
func (a *Aliases) Add(alias, expansion string) error {
	words := strings.Fields(strings.ToUpper(alias))
	if len(words) < 1 {
		return fmt.Errorf("alias is blank")
	}
	if len(strings.Fields(expansion)) < 1 {
		return fmt.Errorf("alias %q: expansion is blank", alias)
	}

	a.table[strings.Join(words, " ")] = expansion
	if len(words) > a.maxWords {
		a.maxWords = len(words)
	}
	return nil
}

// Len returns the number of aliases defined.
func (a *Aliases) Len() int {
	return len(a.table)
}

// MaxWords returns the number of words in the longest alias.
func (a *Aliases) MaxWords() int {
	return a.maxWords
}

// Names returns all defined aliases in sorted order.
func (a *Aliases) Names() []string {
	names := make([]string, 0, len(a.table))
	for k := range a.table {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the expansion of the given alias.
func (a *Aliases) Lookup(alias string) (string, bool) {
	exp, ok := a.table[strings.Join(strings.Fields(strings.ToUpper(alias)), " ")]
	return exp, ok
}

// Expand runs alias expansion on a line of input and returns the resulting
// line. Tokens that are not part of an expanded alias keep their original
// case.
func (a *Aliases) Expand(line string) string {
	tokens := strings.Fields(line)
	return strings.Join(ExpandAliases(a, tokens, a.maxWords), " ")
}

// ExpandAliases takes a slice of tokens of user input and runs alias expansion
// on it. The returned slice contains the same tokens but with aliases
// expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. If it is less than 0, it
// is assumed to be 0. Passing 0 means the given tokens will be returned
// unchanged. The longest matching alias wins.
//
// Aliases will not be multi-expanded; that is, expansion is not applied to the
// results of an expansion; if the caller needs it, they will need to call
// ExpandAliases again on its output.
func ExpandAliases(a *Aliases, tokens []string, aliasLimit int) []string {
	expandedTokens := append([]string{}, tokens...)
	if a == nil || aliasLimit < 1 {
		return expandedTokens
	}

	// only modify verb up to minimum of limit and number of tokens
	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := aliasLimit; curLimit >= 1; curLimit-- {
		checkStr := strings.ToUpper(strings.Join(tokens[:curLimit], " "))
		expansion, ok := a.table[checkStr]
		if ok {
			replacementTokens := strings.Fields(expansion)

			// we are operating from start of tokens passed in so we can just
			// trash all those in the checkStr and replace with the
			// replacementTokens slice
			expandedTokens = append(replacementTokens, tokens[curLimit:]...)

			// only one single substitution, so we can immediately exit
			return expandedTokens
		}
	}

	return expandedTokens
}
