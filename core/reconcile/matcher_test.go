package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(t *testing.T, records ...InfraRecord) []Candidate {
	t.Helper()
	out := make([]Candidate, 0, len(records))
	for i := range records {
		id, _ := InfraIdentity(records[i])
		out = append(out, Candidate{Record: &records[i], Identity: id})
	}
	return out
}

func agentIdentity(name string, ips ...string) Identity {
	id, _ := AgentIdentity(AgentRecord{ID: "agent-" + name, Name: name, IPs: ips})
	return id
}

// TestMatchers_Policy runs every policy case against both strategies.
func TestMatchers_Policy(t *testing.T) {
	pop := candidates(t,
		InfraRecord{ID: "d1", Kind: KindDevice, Name: "web-01.corp.local", IPs: []string{"10.0.0.1"}},
		InfraRecord{ID: "d2", Kind: KindDevice, Name: "db-01", IPs: []string{"10.0.0.2"}},
		InfraRecord{ID: "d3", Kind: KindDevice, Name: "WEB-01", IPs: []string{"10.0.0.3"}},
		InfraRecord{ID: "d4", Kind: KindDevice, Name: "lb-01", IPs: []string{"10.0.0.2", "10.0.0.4"}},
	)

	tests := []struct {
		name          string
		agent         Identity
		wantPosition  int
		wantBasis     Basis
		wantAmbiguous []string
	}{
		{"Hostname match", agentIdentity("db-01"), 1, BasisHostname, nil},
		{"Duplicate hostnames pick first in order", agentIdentity("web-01"), 0, BasisHostname, []string{"d3"}},
		{"Hostname beats IP on another record", agentIdentity("db-01", "10.0.0.4"), 1, BasisHostname, nil},
		{"IP match", agentIdentity("unknown", "10.0.0.4"), 3, BasisIP, nil},
		{"Shared IP picks first in order", agentIdentity("unknown", "10.0.0.2"), 1, BasisIP, []string{"d4"}},
		{"Several agent IPs pick earliest record", agentIdentity("unknown", "10.0.0.4", "10.0.0.3"), 2, BasisIP, []string{"d4"}},
		{"No match", agentIdentity("ghost", "192.0.2.1"), -1, BasisNone, nil},
		{"Nothing to compare", Identity{Kind: KindAgent, ID: "x"}, -1, BasisNone, nil},
		{"Skipped agent", Identity{Kind: KindAgent, Hostnames: []string{"db-01"}, Skipped: true}, -1, BasisNone, nil},
	}

	strategies := map[Strategy]Matcher{
		StrategyLinear:  NewLinearMatcher(pop),
		StrategyIndexed: NewIndexedMatcher(pop),
	}

	for strategy, matcher := range strategies {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", strategy, tt.name), func(t *testing.T) {
				m := matcher.FindMatch(tt.agent)
				assert.Equal(t, tt.wantPosition, m.Position)
				assert.Equal(t, tt.wantBasis, m.Basis)
				assert.Equal(t, tt.wantAmbiguous, m.Ambiguous)
			})
		}
	}
}

func TestNewMatcher(t *testing.T) {
	assert.IsType(t, &LinearMatcher{}, NewMatcher(StrategyLinear, nil))
	assert.IsType(t, &IndexedMatcher{}, NewMatcher(StrategyIndexed, nil))
	assert.IsType(t, &IndexedMatcher{}, NewMatcher("bogus", nil))
}

// TestMatchers_Conformance tests that the linear and indexed strategies
// agree on randomly generated populations full of duplicate names and IPs.
func TestMatchers_Conformance(t *testing.T) {
	rng := rand.New(rand.NewSource(20261017))

	name := func() string { return fmt.Sprintf("host-%02d", rng.Intn(15)) }
	ip := func() string { return fmt.Sprintf("10.0.%d.%d", rng.Intn(2), rng.Intn(20)) }

	for round := 0; round < 50; round++ {
		records := make([]InfraRecord, 40)
		for i := range records {
			records[i] = InfraRecord{
				ID:   fmt.Sprintf("r%d", i),
				Kind: KindDevice,
				Name: name() + ".corp.local",
				IPs:  []string{ip(), ip()},
			}
			if rng.Intn(5) == 0 {
				records[i].DNSNames = []string{name() + ".example.com"}
			}
		}
		pop := candidates(t, records...)
		linear, indexed := NewLinearMatcher(pop), NewIndexedMatcher(pop)

		for a := 0; a < 60; a++ {
			agent := agentIdentity(fmt.Sprintf("agent-%02d", rng.Intn(30)), ip(), ip(), ip())
			if rng.Intn(2) == 0 {
				agent = agentIdentity(name(), ip())
			}
			require.Equal(t, linear.FindMatch(agent), indexed.FindMatch(agent), "round %d agent %v", round, agent)
		}
	}
}
