// Package suggest ranks candidate function names by how well their verb
// matches what a function actually does.
package suggest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jward/harmonizer/internal/coord"
)

// Entry is one verb in the index.
type Entry struct {
	Verb       string           `json:"verb"`
	Coordinate coord.Coordinate `json:"-"`
	Category   string           `json:"category"`
}

// Suggestion is a ranked candidate name.
type Suggestion struct {
	Name       string  `json:"name"`
	Verb       string  `json:"verb"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

// Index is an immutable verb table.
type Index struct {
	entries []Entry
	byVerb  map[string]int
}

// NewIndex builds the index over the built-in verb table.
func NewIndex() *Index {
	return newIndex(builtinEntries)
}

func newIndex(entries []Entry) *Index {
	idx := &Index{
		entries: make([]Entry, len(entries)),
		byVerb:  make(map[string]int, len(entries)),
	}
	copy(idx.entries, entries)
	for i, e := range idx.entries {
		if _, dup := idx.byVerb[e.Verb]; !dup {
			idx.byVerb[e.Verb] = i
		}
	}
	return idx
}

// Len returns the number of verbs.
func (x *Index) Len() int { return len(x.entries) }

// Lookup returns the entry for verb.
func (x *Index) Lookup(verb string) (Entry, bool) {
	i, ok := x.byVerb[strings.ToLower(strings.TrimSpace(verb))]
	if !ok {
		return Entry{}, false
	}
	return x.entries[i], true
}

// Categories returns the category names in table order.
func (x *Index) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range x.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// Entries returns a copy of the table.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Suggest ranks every verb by cosine similarity to execution and returns
// the best topN, most similar first. Equal similarities keep table order.
// When noun is non-empty each name is the verb joined with the noun:
// camelCase for plain verbs, snake_case for verbs that contain underscores.
func (x *Index) Suggest(execution coord.Coordinate, noun string, topN int) []Suggestion {
	if topN <= 0 {
		return nil
	}
	out := make([]Suggestion, len(x.entries))
	for i, e := range x.entries {
		out[i] = Suggestion{
			Name:       compose(e.Verb, noun),
			Verb:       e.Verb,
			Category:   e.Category,
			Similarity: clamp01(execution.CosineSimilarity(e.Coordinate)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func compose(verb, noun string) string {
	noun = strings.TrimSpace(noun)
	if noun == "" {
		return verb
	}
	if strings.Contains(verb, "_") {
		return verb + "_" + strings.ToLower(noun)
	}
	r, size := utf8.DecodeRuneInString(noun)
	return verb + string(unicode.ToUpper(r)) + noun[size:]
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
