// Package symptoms provides an in-memory symptom reference: a small database
// of conditions and their typical symptoms, ranked against a patient's
// answers so that follow-up generation gets the most relevant entries.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for stop words and size caps
//   - Immutable after construction, safe for concurrent use
//   - Deterministic scoring and ordering
//
// Scoring uses Jaccard similarity between the query token set and each
// entry's token set (condition name plus symptom text).
package symptoms

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Entry is one condition of the reference database.
type Entry struct {
	Condition string
	Symptoms  string
}

// Result is a ranked entry with its similarity score.
type Result struct {
	Entry Entry
	Score float64
}

// Index ranks reference entries against free text.
type Index interface {
	TopK(query string, k int) []Result
	Len() int
}

// Option configures an index.
type Option func(*options)

type options struct {
	stopwords  map[string]struct{}
	maxEntries int
}

func defaultOptions() options {
	return options{stopwords: toSet(DefaultStopwords)}
}

// WithStopwords replaces the default stop-word list. An empty list disables
// stop-word removal.
func WithStopwords(words []string) Option {
	return func(o *options) { o.stopwords = toSet(words) }
}

// WithMaxEntries caps how many entries are indexed (0 = unlimited).
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// DefaultStopwords are common English words that carry no symptom signal.
var DefaultStopwords = []string{
	"a", "an", "and", "any", "are", "as", "at", "be", "been", "but", "by", "did", "do", "for",
	"from", "had", "has", "have", "how", "i", "in", "is", "it", "my", "no", "not", "of", "on",
	"or", "so", "than", "that", "the", "this", "to", "today", "was", "were", "what", "with",
	"yes", "you", "your",
}

type entryDoc struct {
	entry  Entry
	tokens map[string]struct{}
	runes  int
}

type index struct {
	opts options
	docs []entryDoc
}

// NewIndex builds an Index from entries. Entries with no usable tokens or an
// empty condition name are skipped.
func NewIndex(entries []Entry, opts ...Option) Index {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	docs := make([]entryDoc, 0, len(entries))
	for _, e := range entries {
		e.Condition = strings.TrimSpace(e.Condition)
		e.Symptoms = strings.TrimSpace(collapseSpaces(e.Symptoms))
		if e.Condition == "" {
			continue
		}
		toks := tokenize(e.Condition+" "+e.Symptoms, o.stopwords)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, entryDoc{entry: e, tokens: toks, runes: utf8.RuneCountInString(e.Symptoms)})
		if o.maxEntries > 0 && len(docs) >= o.maxEntries {
			break
		}
	}
	return &index{opts: o, docs: docs}
}

func (i *index) Len() int { return len(i.docs) }

// TopK returns up to k entries sharing at least one token with query, best
// first. Ties prefer shorter symptom text, then condition name.
func (i *index) TopK(query string, k int) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	q := tokenize(query, i.opts.stopwords)
	if len(q) == 0 {
		return nil
	}

	type scored struct {
		doc   *entryDoc
		score float64
	}
	var hits []scored
	for n := range i.docs {
		d := &i.docs[n]
		over := overlap(q, d.tokens)
		if over == 0 {
			continue
		}
		union := len(q) + len(d.tokens) - over
		hits = append(hits, scored{doc: d, score: float64(over) / float64(union)})
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		if hits[a].doc.runes != hits[b].doc.runes {
			return hits[a].doc.runes < hits[b].doc.runes
		}
		return hits[a].doc.entry.Condition < hits[b].doc.entry.Condition
	})

	if k > len(hits) {
		k = len(hits)
	}
	out := make([]Result, k)
	for n := 0; n < k; n++ {
		out[n] = Result{Entry: hits[n].doc.entry, Score: hits[n].score}
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
