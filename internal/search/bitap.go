package search

// maxBits bounds a single bitap pattern; longer patterns are searched in chunks.
const maxBits = 32

type bitapOptions struct {
	location       int
	distance       int
	threshold      float64
	ignoreLocation bool
}

// fuzzyMatcher scores one fuzzy term against text with the bitap algorithm.
type fuzzyMatcher struct {
	pattern []rune
	chunks  []chunk
	opts    bitapOptions
}

type chunk struct {
	pattern  []rune
	alphabet map[rune]int
	start    int
}

func newFuzzyMatcher(pattern string, opts bitapOptions) *fuzzyMatcher {
	p := []rune(pattern)
	f := &fuzzyMatcher{pattern: p, opts: opts}
	if len(p) == 0 {
		return f
	}
	add := func(part []rune, start int) {
		f.chunks = append(f.chunks, chunk{pattern: part, alphabet: alphabetOf(part), start: start})
	}
	if len(p) <= maxBits {
		add(p, 0)
		return f
	}
	rem := len(p) % maxBits
	end := len(p) - rem
	for i := 0; i < end; i += maxBits {
		add(p[i:i+maxBits], i)
	}
	if rem > 0 {
		start := len(p) - maxBits
		add(p[start:], start)
	}
	return f
}

func (f *fuzzyMatcher) match(text string) (float64, bool) {
	t := []rune(text)
	if string(t) == string(f.pattern) {
		return 0, true
	}
	if len(f.chunks) == 0 {
		return 1, false
	}

	var (
		total   float64
		matched bool
	)
	for _, c := range f.chunks {
		opts := f.opts
		opts.location += c.start
		score, ok := bitap(t, c.pattern, c.alphabet, opts)
		if ok {
			matched = true
		}
		total += score
	}
	if !matched {
		return 1, false
	}
	return total / float64(len(f.chunks)), true
}

func alphabetOf(pattern []rune) map[rune]int {
	mask := make(map[rune]int, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		mask[r] |= 1 << (n - i - 1)
	}
	return mask
}

// computeScore combines the error ratio with the distance from the
// expected location. 0 is a perfect match, 1 is no match.
func computeScore(patternLen, errs, current, expected int, o bitapOptions) float64 {
	accuracy := float64(errs) / float64(patternLen)
	if o.ignoreLocation {
		return accuracy
	}
	proximity := expected - current
	if proximity < 0 {
		proximity = -proximity
	}
	if o.distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(o.distance)
}

// bitap runs an approximate substring search of pattern within text,
// allowing up to len(pattern)-1 errors while the score stays under the
// threshold.
func bitap(text, pattern []rune, alphabet map[rune]int, o bitapOptions) (float64, bool) {
	patternLen := len(pattern)
	textLen := len(text)
	expected := min(max(o.location, 0), textLen)

	threshold := o.threshold
	best := expected

	// exact occurrences tighten the threshold up front
	for {
		idx := indexRunes(text, pattern, best)
		if idx < 0 {
			break
		}
		score := computeScore(patternLen, 0, idx, expected, o)
		threshold = min(score, threshold)
		best = idx + patternLen
	}

	best = -1
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := 1 << (patternLen - 1)
	var lastBits []int

	for i := 0; i < patternLen; i++ {
		// widest window around the expected location still under threshold
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if computeScore(patternLen, i, expected+binMid, expected, o) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := min(expected+binMid, textLen) + patternLen

		bits := make([]int, finish+2)
		bits[finish+1] = (1 << i) - 1

		for j := finish; j >= start; j-- {
			cur := j - 1
			charMatch := 0
			if cur < textLen {
				charMatch = alphabet[text[cur]]
			}

			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bits[j] |= ((at(lastBits, j+1) | at(lastBits, j)) << 1) | 1 | at(lastBits, j+1)
			}

			if bits[j]&mask != 0 {
				finalScore = computeScore(patternLen, i, cur, expected, o)
				if finalScore <= threshold {
					threshold = finalScore
					best = cur
					if best <= expected {
						break
					}
					start = max(1, 2*expected-best)
				}
			}
		}

		if computeScore(patternLen, i+1, expected, expected, o) > threshold {
			break
		}
		lastBits = bits
	}

	return max(0.001, finalScore), best >= 0
}

func at(bits []int, i int) int {
	if i < 0 || i >= len(bits) {
		return 0
	}
	return bits[i]
}

func indexRunes(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pattern) <= len(text); i++ {
		ok := true
		for k, r := range pattern {
			if text[i+k] != r {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}
