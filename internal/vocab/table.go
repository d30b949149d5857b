// Package vocab maps programming words and phrases onto the four semantic
// dimensions.
//
// A Table is immutable once built. Lookups consult four tiers in a fixed
// order: custom overrides, multi-word compound patterns, single verbs, and
// language keywords. The first tier that knows a word decides its dimension.
package vocab

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/jward/harmonizer/internal/coord"
)

// Tier identifies which word list resolved a lookup.
type Tier int

const (
	TierCustom Tier = iota
	TierCompound
	TierVerb
	TierKeyword
)

func (t Tier) String() string {
	switch t {
	case TierCustom:
		return "custom"
	case TierCompound:
		return "compound"
	case TierVerb:
		return "verb"
	case TierKeyword:
		return "keyword"
	}
	return "unknown"
}

// Match describes a successful lookup.
type Match struct {
	Word      string          `json:"word"`
	Phrase    string          `json:"phrase"`
	Dimension coord.Dimension `json:"dimension"`
	Tier      Tier            `json:"tier"`
}

// builtinVersion is folded into Fingerprint so stored results are
// invalidated when the built-in word lists change.
const builtinVersion = "1"

type builtinTables struct {
	compounds map[string]coord.Dimension
	verbs     map[string]coord.Dimension
	keywords  map[string]coord.Dimension
}

// builtin holds the flattened built-in lists. They are read-only and shared
// by every Table.
var builtin = builtinTables{
	compounds: flatten(compoundPatterns),
	verbs:     flatten(verbs),
	keywords:  flatten(keywords),
}

// flatten inverts a dimension->words list. Dimensions are visited in
// precedence order and the first assignment of a word wins.
func flatten(lists map[coord.Dimension][]string) map[string]coord.Dimension {
	out := make(map[string]coord.Dimension)
	for _, d := range coord.Dimensions {
		for _, w := range lists[d] {
			key := Phrase(w)
			if key == "" {
				continue
			}
			if _, ok := out[key]; !ok {
				out[key] = d
			}
		}
	}
	return out
}

// Table resolves words to dimensions.
type Table struct {
	custom map[string]coord.Dimension
}

// New returns a table holding the built-in word lists plus the given
// overrides. A nil map is allowed.
func New(overrides map[string]coord.Dimension) *Table {
	return (&Table{custom: map[string]coord.Dimension{}}).Extend(overrides)
}

// Default returns a table with no overrides.
func Default() *Table {
	return New(nil)
}

// Extend returns a new table with entries layered over t's overrides. Later
// entries take precedence over earlier overrides and over every built-in
// tier. Entries with invalid dimensions or empty keys are ignored; validate
// input with ParseOverrides or LoadOverrides first.
func (t *Table) Extend(entries map[string]coord.Dimension) *Table {
	custom := make(map[string]coord.Dimension, len(t.custom)+len(entries))
	for k, v := range t.custom {
		custom[k] = v
	}
	for k, v := range entries {
		key := Phrase(k)
		if key == "" || !v.Valid() {
			continue
		}
		custom[key] = v
	}
	return &Table{custom: custom}
}

// Overrides returns a copy of the custom entries.
func (t *Table) Overrides() map[string]coord.Dimension {
	out := make(map[string]coord.Dimension, len(t.custom))
	for k, v := range t.custom {
		out[k] = v
	}
	return out
}

// Fingerprint identifies the effective vocabulary.
func (t *Table) Fingerprint() string {
	keys := make([]string, 0, len(t.custom))
	for k := range t.custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte("builtin:" + builtinVersion + "\n"))
	for _, k := range keys {
		h.Write([]byte(k + "=" + t.custom[k].String() + "\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the dimension for word, case-insensitively. Unknown words
// return false.
func (t *Table) Lookup(word string) (coord.Dimension, bool) {
	m, ok := t.Explain(word)
	return m.Dimension, ok
}

// Explain is Lookup that also reports which tier matched.
func (t *Table) Explain(word string) (Match, bool) {
	lower := strings.ToLower(strings.TrimSpace(word))
	phrase := Phrase(word)
	if lower == "" && phrase == "" {
		return Match{}, false
	}
	// A single-token word is looked up by its token so "Get" and "get_"
	// resolve like "get".
	single := lower
	if phrase != "" && !strings.Contains(phrase, " ") {
		single = phrase
	}

	m := Match{Word: word, Phrase: phrase}
	if d, ok := t.custom[lower]; ok {
		m.Dimension, m.Tier = d, TierCustom
		return m, true
	}
	if d, ok := t.custom[phrase]; ok {
		m.Dimension, m.Tier = d, TierCustom
		return m, true
	}
	if d, ok := builtin.compounds[phrase]; ok {
		m.Dimension, m.Tier = d, TierCompound
		return m, true
	}
	if d, ok := builtin.verbs[single]; ok {
		m.Dimension, m.Tier = d, TierVerb
		return m, true
	}
	if d, ok := builtin.keywords[single]; ok {
		m.Dimension, m.Tier = d, TierKeyword
		return m, true
	}
	return Match{}, false
}

// lookupPhrase consults only the tiers that hold multi-word entries.
func (t *Table) lookupPhrase(phrase string) (coord.Dimension, bool) {
	if d, ok := t.custom[phrase]; ok {
		return d, true
	}
	d, ok := builtin.compounds[phrase]
	return d, ok
}

// AnalyzeText tokenizes text and builds a coordinate from the dimensions of
// the tokens it knows. Adjacent tokens that form a compound pattern count
// once, as the compound.
func (t *Table) AnalyzeText(text string) coord.Coordinate {
	return mustCoordinate(t.CountText(text))
}

// CountText returns the per-dimension tallies AnalyzeText normalizes.
func (t *Table) CountText(text string) coord.Counts {
	var k coord.Counts
	t.countTokens(Tokenize(text), &k)
	return k
}

func (t *Table) countTokens(toks []string, k *coord.Counts) int {
	found := 0
	for i := 0; i < len(toks); i++ {
		if i+1 < len(toks) {
			if d, ok := t.lookupPhrase(toks[i] + " " + toks[i+1]); ok {
				k.Add(d, 1)
				found++
				i++
				continue
			}
		}
		if d, ok := t.Lookup(toks[i]); ok {
			k.Add(d, 1)
			found++
		}
	}
	return found
}

// Concept is one extracted word. Tagged concepts come from syntax constructs
// and carry a fixed dimension; untagged ones are resolved through a Table.
type Concept struct {
	Word      string          `json:"word"`
	Dimension coord.Dimension `json:"dimension"`
	Tagged    bool            `json:"tagged"`
}

// Words wraps plain words as untagged concepts.
func Words(words ...string) []Concept {
	out := make([]Concept, len(words))
	for i, w := range words {
		out[i] = Concept{Word: w}
	}
	return out
}

// Count tallies concepts. An untagged concept is looked up whole first and
// falls back to its tokens, so an identifier such as "getUserData"
// contributes through "get". Unknown words contribute nothing.
func (t *Table) Count(concepts []Concept) coord.Counts {
	var k coord.Counts
	for _, c := range concepts {
		if c.Tagged {
			if c.Dimension.Valid() {
				k.Add(c.Dimension, 1)
			}
			continue
		}
		if d, ok := t.Lookup(c.Word); ok {
			k.Add(d, 1)
			continue
		}
		t.countTokens(Tokenize(c.Word), &k)
	}
	return k
}

// Coordinate normalizes Count(concepts).
func (t *Table) Coordinate(concepts []Concept) coord.Coordinate {
	return mustCoordinate(t.Count(concepts))
}

// Resolve reports the dimension a single concept contributes, if any. For
// multi-token words this is the dominant dimension of its tokens.
func (t *Table) Resolve(c Concept) (coord.Dimension, bool) {
	if c.Tagged {
		return c.Dimension, c.Dimension.Valid()
	}
	if d, ok := t.Lookup(c.Word); ok {
		return d, true
	}
	var k coord.Counts
	if t.countTokens(Tokenize(c.Word), &k) == 0 {
		return 0, false
	}
	return mustCoordinate(k).Dominant(), true
}

// mustCoordinate normalizes counts built by this package. They are never
// negative, so an error here is a bug.
func mustCoordinate(k coord.Counts) coord.Coordinate {
	c, err := k.Coordinate()
	if err != nil {
		panic(err)
	}
	return c
}

// Tokenize splits text on non-alphanumeric characters and camelCase
// boundaries and lowercases the pieces.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		for _, part := range camelcase.Split(f) {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Phrase normalizes a word or phrase into lowercase tokens joined by single
// spaces: "lookUp", "look_up" and "Look Up" all become "look up".
func Phrase(s string) string {
	return strings.Join(Tokenize(s), " ")
}
