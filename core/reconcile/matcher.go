package reconcile

import "sort"

// Candidate is one infrastructure record together with its identity.
// Candidates are kept in the population's original fetch order.
type Candidate struct {
	Record   *InfraRecord
	Identity Identity
}

// Match is the outcome of matching one agent against one population.
type Match struct {
	// Position is the index of the chosen candidate, or -1 when unmatched.
	Position int
	Basis    Basis

	// Ambiguous lists the IDs of other candidates that matched on the same
	// basis and lost the first-in-order tie-break.
	Ambiguous []string
}

// Matched reports whether a candidate was chosen.
func (m Match) Matched() bool {
	return m.Position >= 0
}

var noMatch = Match{Position: -1, Basis: BasisNone}

// Matcher finds the candidate an agent identity corresponds to.
// Hostname matches always win over IP matches; among several hits the
// candidate earliest in the population wins.
type Matcher interface {
	FindMatch(agent Identity) Match
}

// Strategy selects a Matcher implementation.
type Strategy string

const (
	// StrategyLinear scans the whole population for every agent.
	StrategyLinear Strategy = "linear"
	// StrategyIndexed looks agents up in prebuilt hostname and IP indices.
	StrategyIndexed Strategy = "indexed"
)

// NewMatcher builds the matcher for the given strategy. Unknown strategies
// fall back to StrategyIndexed.
func NewMatcher(strategy Strategy, candidates []Candidate) Matcher {
	if strategy == StrategyLinear {
		return NewLinearMatcher(candidates)
	}
	return NewIndexedMatcher(candidates)
}

// LinearMatcher is the reference implementation.
type LinearMatcher struct {
	candidates []Candidate
}

// NewLinearMatcher returns a matcher that scans candidates in order.
func NewLinearMatcher(candidates []Candidate) *LinearMatcher {
	return &LinearMatcher{candidates: candidates}
}

// FindMatch implements Matcher.
func (m *LinearMatcher) FindMatch(agent Identity) Match {
	if agent.Skipped {
		return noMatch
	}
	if hits := m.scan(agent.Hostnames, func(c Candidate) []string { return c.Identity.Hostnames }); len(hits) > 0 {
		return m.pick(hits, BasisHostname)
	}
	if hits := m.scan(agent.IPs, func(c Candidate) []string { return c.Identity.IPs }); len(hits) > 0 {
		return m.pick(hits, BasisIP)
	}
	return noMatch
}

// scan returns the positions, in order, of candidates sharing a value with want.
func (m *LinearMatcher) scan(want []string, values func(Candidate) []string) []int {
	if len(want) == 0 {
		return nil
	}
	var hits []int
	for i, c := range m.candidates {
		if intersects(want, values(c)) {
			hits = append(hits, i)
		}
	}
	return hits
}

func (m *LinearMatcher) pick(hits []int, basis Basis) Match {
	match := Match{Position: hits[0], Basis: basis}
	for _, pos := range hits[1:] {
		match.Ambiguous = append(match.Ambiguous, m.candidates[pos].Identity.ID)
	}
	return match
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// IndexedMatcher answers lookups from hostname and IP indices built once
// over the population. Positions in each index are ascending, which keeps
// the first-in-order tie-break identical to LinearMatcher.
type IndexedMatcher struct {
	candidates []Candidate
	byHostname map[string][]int
	byIP       map[string][]int
}

// NewIndexedMatcher indexes candidates by every hostname and IP they carry.
func NewIndexedMatcher(candidates []Candidate) *IndexedMatcher {
	m := &IndexedMatcher{
		candidates: candidates,
		byHostname: make(map[string][]int),
		byIP:       make(map[string][]int),
	}
	for i, c := range candidates {
		for _, h := range c.Identity.Hostnames {
			m.byHostname[h] = appendPosition(m.byHostname[h], i)
		}
		for _, ip := range c.Identity.IPs {
			m.byIP[ip] = appendPosition(m.byIP[ip], i)
		}
	}
	return m
}

// appendPosition adds pos unless it is already the last entry, which is
// enough to deduplicate since positions are appended in ascending order.
func appendPosition(list []int, pos int) []int {
	if n := len(list); n > 0 && list[n-1] == pos {
		return list
	}
	return append(list, pos)
}

// FindMatch implements Matcher.
func (m *IndexedMatcher) FindMatch(agent Identity) Match {
	if agent.Skipped {
		return noMatch
	}
	if hits := m.lookup(agent.Hostnames, m.byHostname); len(hits) > 0 {
		return m.pick(hits, BasisHostname)
	}
	if hits := m.lookup(agent.IPs, m.byIP); len(hits) > 0 {
		return m.pick(hits, BasisIP)
	}
	return noMatch
}

// lookup merges the position lists of every key into one ascending,
// duplicate-free list.
func (m *IndexedMatcher) lookup(keys []string, index map[string][]int) []int {
	var lists [][]int
	for _, k := range keys {
		if positions, ok := index[k]; ok {
			lists = append(lists, positions)
		}
	}
	switch len(lists) {
	case 0:
		return nil
	case 1:
		return lists[0]
	}

	seen := make(map[int]struct{})
	var merged []int
	for _, positions := range lists {
		for _, p := range positions {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			merged = append(merged, p)
		}
	}
	sort.Ints(merged)
	return merged
}

func (m *IndexedMatcher) pick(hits []int, basis Basis) Match {
	match := Match{Position: hits[0], Basis: basis}
	for _, pos := range hits[1:] {
		match.Ambiguous = append(match.Ambiguous, m.candidates[pos].Identity.ID)
	}
	return match
}
