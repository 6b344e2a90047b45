package reconcile

import (
	"fmt"
	"strings"
)

// Options tunes a reconciliation run.
type Options struct {
	Strategy Strategy
}

// Option mutates Options.
type Option func(*Options)

// WithStrategy selects the matcher implementation.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// Reconcile correlates agents with devices and VMs.
//
// Every record is normalized once. Each agent is matched against devices
// first and only falls through to VMs when no device matched, so an agent
// is never reported against both. Malformed records are kept out of
// matching and reported unmatched with their raw payload.
//
// A nil population means the fetch did not happen and fails the call with
// a *PreconditionError; an empty non-nil slice is a valid population.
// Reconcile performs no I/O and does not mutate its inputs.
func Reconcile(agents []AgentRecord, devices, vms []InfraRecord, opts ...Option) (*Report, error) {
	switch {
	case agents == nil:
		return nil, &PreconditionError{Population: "agents"}
	case devices == nil:
		return nil, &PreconditionError{Population: "devices"}
	case vms == nil:
		return nil, &PreconditionError{Population: "vms"}
	}

	o := Options{Strategy: StrategyIndexed}
	for _, opt := range opts {
		opt(&o)
	}

	report := &Report{
		Matched:          make([]MatchResult, 0),
		UnmatchedAgents:  make([]AgentRecord, 0),
		UnmatchedDevices: make([]InfraRecord, 0),
		UnmatchedVMs:     make([]InfraRecord, 0),
		Diagnostics:      make([]Diagnostic, 0),
	}

	devicePop, diags := buildPopulation(devices, KindDevice)
	report.Diagnostics = append(report.Diagnostics, diags...)
	vmPop, diags := buildPopulation(vms, KindVM)
	report.Diagnostics = append(report.Diagnostics, diags...)

	deviceMatcher := NewMatcher(o.Strategy, devicePop.candidates)
	vmMatcher := NewMatcher(o.Strategy, vmPop.candidates)

	for i := range agents {
		agent := &agents[i]
		identity, diags := AgentIdentity(*agent)
		report.Diagnostics = append(report.Diagnostics, diags...)

		pop, match := devicePop, deviceMatcher.FindMatch(identity)
		if !match.Matched() {
			pop, match = vmPop, vmMatcher.FindMatch(identity)
		}

		if !match.Matched() {
			report.UnmatchedAgents = append(report.UnmatchedAgents, *agent)
			report.Summary.UnmatchedAgents++
			continue
		}

		candidate := pop.candidates[match.Position]
		pop.matched[match.Position] = true
		if len(match.Ambiguous) > 0 {
			report.Diagnostics = append(report.Diagnostics, ambiguous(identity.ID, candidate, match))
		}

		report.Matched = append(report.Matched, newMatchResult(agent, candidate.Record, match.Basis))
		if pop.kind == KindDevice {
			report.Summary.MatchedWithDevices++
		} else {
			report.Summary.MatchedWithVMs++
		}
	}

	report.UnmatchedDevices = devicePop.unmatched(devices)
	report.UnmatchedVMs = vmPop.unmatched(vms)

	report.Summary.TotalAgents = len(agents)
	report.Summary.TotalDevices = len(devices)
	report.Summary.TotalVMs = len(vms)
	report.Summary.UnmatchedDevices = len(report.UnmatchedDevices)
	report.Summary.UnmatchedVMs = len(report.UnmatchedVMs)

	return report, nil
}

// population is one normalized infrastructure population.
type population struct {
	kind       Kind
	candidates []Candidate
	// source maps a candidate position to its index in the input slice.
	source []int
	// matched is indexed by candidate position.
	matched []bool
}

func buildPopulation(records []InfraRecord, kind Kind) (*population, []Diagnostic) {
	pop := &population{kind: kind}
	var diags []Diagnostic

	for i := range records {
		rec := &records[i]
		if rec.Kind != kind {
			rec = withKind(rec, kind)
		}
		identity, d := InfraIdentity(*rec)
		diags = append(diags, d...)
		if identity.Skipped {
			continue
		}
		pop.candidates = append(pop.candidates, Candidate{Record: rec, Identity: identity})
		pop.source = append(pop.source, i)
	}
	pop.matched = make([]bool, len(pop.candidates))
	return pop, diags
}

// withKind returns a copy of rec tagged with kind, leaving the caller's
// slice untouched.
func withKind(rec *InfraRecord, kind Kind) *InfraRecord {
	c := *rec
	c.Kind = kind
	return &c
}

// unmatched returns the input records no agent matched, in input order.
// Skipped records are always unmatched.
func (p *population) unmatched(records []InfraRecord) []InfraRecord {
	hit := make([]bool, len(records))
	for pos, matched := range p.matched {
		if matched {
			hit[p.source[pos]] = true
		}
	}

	out := make([]InfraRecord, 0, len(records))
	for i, rec := range records {
		if hit[i] {
			continue
		}
		rec.Kind = p.kind
		out = append(out, rec)
	}
	return out
}

func newMatchResult(agent *AgentRecord, rec *InfraRecord, basis Basis) MatchResult {
	return MatchResult{
		Agent:         agent,
		Record:        rec,
		Basis:         basis,
		Kind:          rec.Kind,
		StatusMatch:   agent.Status == AgentOnline && rec.Status == InfraActive,
		PlatformMatch: samePlatform(agent.Platform, rec.Platform),
	}
}

func samePlatform(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func ambiguous(agentID string, chosen Candidate, match Match) Diagnostic {
	return Diagnostic{
		Code:     CodeAmbiguousMatch,
		Kind:     KindAgent,
		RecordID: agentID,
		Message: fmt.Sprintf("%s match on %s %s chosen over %s",
			match.Basis, chosen.Identity.Kind, chosen.Identity.ID, strings.Join(match.Ambiguous, ", ")),
	}
}
