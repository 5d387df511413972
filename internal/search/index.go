// Package search is a weighted fuzzy index over (interface, method) pairs.
//
// Each key is scored independently with an approximate (bitap) matcher and
// an extended query syntax:
//
//	foo       fuzzy
//	=foo      exact
//	'foo      includes
//	^foo      prefix
//	foo$      suffix
//	!foo      does not include
//	!^foo     no prefix
//	!foo$     no suffix
//
// Terms separated by spaces must all match; "|" separates alternatives.
// Scores range from 0 (exact) to 1 (unrelated); results are returned best first.
package search

import (
	"math"
	"sort"
	"strings"

	"steamdocs/internal/model"
)

const (
	DefaultThreshold       = 0.3
	DefaultInterfaceWeight = 0.3
	DefaultMethodWeight    = 0.7
	defaultDistance        = 100
)

type options struct {
	threshold       float64
	interfaceWeight float64
	methodWeight    float64
	distance        int
	location        int
}

type Option func(*options)

// WithThreshold sets the per-term match cutoff. Lower is stricter.
func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithWeights sets the relative weight of the interface and method keys.
func WithWeights(iface, method float64) Option {
	return func(o *options) {
		o.interfaceWeight = iface
		o.methodWeight = method
	}
}

// WithDistance sets how far from the start of a name a fuzzy match may drift.
func WithDistance(d int) Option {
	return func(o *options) { o.distance = d }
}

type Result struct {
	Entry model.SearchEntry
	Score float64
	// Index is the entry's position in declaration order.
	Index int
}

type record struct {
	fields [2]string
	norms  [2]float64
}

// Index is immutable once built and safe for concurrent reads.
type Index struct {
	entries []model.SearchEntry
	records []record
	weights [2]float64
	opts    options
}

func Build(entries []model.SearchEntry, opts ...Option) *Index {
	o := options{
		threshold:       DefaultThreshold,
		interfaceWeight: DefaultInterfaceWeight,
		methodWeight:    DefaultMethodWeight,
		distance:        defaultDistance,
	}
	for _, opt := range opts {
		opt(&o)
	}

	total := o.interfaceWeight + o.methodWeight
	if total <= 0 {
		total = 1
	}

	idx := &Index{
		entries: append([]model.SearchEntry(nil), entries...),
		records: make([]record, len(entries)),
		weights: [2]float64{o.interfaceWeight / total, o.methodWeight / total},
		opts:    o,
	}
	for i, e := range entries {
		iface := strings.ToLower(e.Interface)
		method := strings.ToLower(e.Method)
		idx.records[i] = record{
			fields: [2]string{iface, method},
			norms:  [2]float64{fieldNorm(iface), fieldNorm(method)},
		}
	}
	return idx
}

func (x *Index) Len() int {
	return len(x.entries)
}

// Search returns matching entries, best first. A blank query returns nil;
// callers treat that as "no filter", not as "no matches".
func (x *Index) Search(q string) []Result {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	parsed := parseQuery(strings.ToLower(q), bitapOptions{
		location:  x.opts.location,
		distance:  x.opts.distance,
		threshold: x.opts.threshold,
	})
	if len(parsed) == 0 {
		return nil
	}

	var out []Result
	for i, rec := range x.records {
		total := 1.0
		matched := false
		for k, field := range rec.fields {
			score, ok := parsed.match(field)
			if !ok {
				continue
			}
			matched = true
			w := x.weights[k]
			if score == 0 && w > 0 {
				score = epsilon
			}
			total *= math.Pow(score, w*rec.norms[k])
		}
		if matched {
			out = append(out, Result{Entry: x.entries[i], Score: total, Index: i})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Index < out[j].Index
		}
		return out[i].Score < out[j].Score
	})
	return out
}

// epsilon stands in for a zero key score so a perfect match on a weighted
// key still ranks by its weight.
const epsilon = 2.220446049250313e-16

// fieldNorm down-weights long multi-word values: 1/sqrt(words), 3 decimals.
func fieldNorm(s string) float64 {
	words := len(strings.Fields(s))
	if words == 0 {
		return 1
	}
	n := 1 / math.Sqrt(float64(words))
	return math.Round(n*1000) / 1000
}
