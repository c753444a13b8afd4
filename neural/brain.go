package neural

import "slices"

// MaxAvoidRetries bounds how many times a freshly drawn brain is rejected
// for matching a known-bad signature before the last candidate is kept.
const MaxAvoidRetries = 16

// HashSet is a set of brain signatures as produced by Hash.
type HashSet map[string]struct{}

// NewHashSet builds a set from a list of signatures. Duplicates collapse.
func NewHashSet(hashes []string) HashSet {
	s := make(HashSet, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}

// Contains reports whether h is in the set.
func (s HashSet) Contains(h string) bool {
	_, ok := s[h]
	return ok
}

// List returns the signatures in sorted order.
func (s HashSet) List() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// NewBrainAvoiding draws a brain and redraws it while its signature is in
// avoid, at most MaxAvoidRetries times. The final candidate is returned even
// if it still collides. retries reports how many redraws happened.
//
// An empty avoid set never hashes, so the draw sequence is the same as a
// single NewBrain call.
func NewBrainAvoiding(layerSizes []uint32, src Source, avoid HashSet) (b *Brain, retries int) {
	b = NewBrain(layerSizes, src)
	if len(avoid) == 0 {
		return b, 0
	}
	for retries < MaxAvoidRetries {
		if !avoid.Contains(Hash(b)) {
			return b, retries
		}
		b = NewBrain(layerSizes, src)
		retries++
	}
	return b, retries
}
