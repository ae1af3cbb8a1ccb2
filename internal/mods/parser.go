// Package mods normalizes human-readable affix lines into stat ids and
// rolled values using the static stat dictionary.
package mods

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownMod is returned when an affix line matches no dictionary
// entry in either polarity. Callers must propagate it: silently
// dropping an affix would corrupt any comparable-search filter built
// from the parse.
var ErrUnknownMod = errors.New("mods: unknown mod")

// StatEntry is one dictionary entry: a stat hash and its canonical
// templated text (numbers replaced with '#').
type StatEntry struct {
	ID   string
	Text string
}

// Mod is a parsed affix line.
type Mod struct {
	// Text is the raw input line.
	Text string
	// Template is the normalized text with numerals replaced by '#'.
	Template string
	// Hash is the matched stat id.
	Hash string
	// Value1 is the first rolled value, expressed in the dictionary
	// entry's canonical polarity (negated when the input used the
	// opposite phrasing).
	Value1 float64
	// Value2 is the second rolled value for two-number affixes, nil
	// otherwise.
	Value2 *float64
}

var (
	// numberRe matches integer and decimal literals.
	numberRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

	// pipeBracketRe matches bracketed alternative phrasings [A|B],
	// resolved to the second alternative.
	pipeBracketRe = regexp.MustCompile(`\[([^|\]]+)\|([^\]]+)\]`)

	// bareBracketRe matches remaining single-phrase brackets [A].
	bareBracketRe = regexp.MustCompile(`\[([^\]]+)\]`)
)

// Parser resolves affix lines against a stat dictionary.
type Parser struct {
	byText map[string]StatEntry
}

// NewParser builds a Parser over the given dictionary entries. Entries
// are stored in one polarity only; Parse handles the other.
func NewParser(entries []StatEntry) *Parser {
	byText := make(map[string]StatEntry, len(entries))
	for _, e := range entries {
		// First entry wins on duplicate text, matching upstream
		// dictionary order.
		if _, exists := byText[e.Text]; !exists {
			byText[e.Text] = e
		}
	}
	return &Parser{byText: byText}
}

// Default returns a Parser over the bundled stat dictionary.
func Default() *Parser {
	return NewParser(DefaultEntries)
}

// Parse normalizes one affix line. Bracketed alternatives are resolved,
// numerals are templated away, and the template is looked up as-is and
// with increased/reduced flipped (the dictionary stores one polarity,
// the game client may render either). When the match required the flip,
// rolled values are negated into the dictionary's canonical polarity.
func (p *Parser) Parse(text string) (Mod, error) {
	resolved := pipeBracketRe.ReplaceAllString(text, "$2")
	resolved = bareBracketRe.ReplaceAllString(resolved, "$1")

	template := numberRe.ReplaceAllString(resolved, "#")

	entry, flipped, ok := p.lookup(template)
	if !ok {
		return Mod{}, fmt.Errorf("%w: %q (template %q)", ErrUnknownMod, text, template)
	}

	mod := Mod{
		Text:     text,
		Template: template,
		Hash:     entry.ID,
	}

	numbers := numberRe.FindAllString(resolved, -1)
	if len(numbers) > 0 {
		v, err := strconv.ParseFloat(strings.TrimPrefix(numbers[0], "+"), 64)
		if err != nil {
			return Mod{}, fmt.Errorf("mods: parse value in %q: %w", text, err)
		}
		mod.Value1 = v
	}
	if len(numbers) > 1 {
		v, err := strconv.ParseFloat(strings.TrimPrefix(numbers[1], "+"), 64)
		if err != nil {
			return Mod{}, fmt.Errorf("mods: parse value in %q: %w", text, err)
		}
		mod.Value2 = &v
	}

	if flipped {
		mod.Value1 = -mod.Value1
		if mod.Value2 != nil {
			negated := -*mod.Value2
			mod.Value2 = &negated
		}
	}

	return mod, nil
}

// lookup finds the dictionary entry for a template, trying the template
// as-is and with the increased/reduced polarity substituted. The
// returned flag reports whether the substitution was needed.
func (p *Parser) lookup(template string) (StatEntry, bool, bool) {
	if entry, ok := p.byText[template]; ok {
		return entry, false, true
	}
	if strings.Contains(template, "increased") {
		if entry, ok := p.byText[strings.ReplaceAll(template, "increased", "reduced")]; ok {
			return entry, true, true
		}
	}
	if strings.Contains(template, "reduced") {
		if entry, ok := p.byText[strings.ReplaceAll(template, "reduced", "increased")]; ok {
			return entry, true, true
		}
	}
	return StatEntry{}, false, false
}
