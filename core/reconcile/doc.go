// Package reconcile correlates scanner agents with infrastructure devices
// and virtual machines.
//
// It is a pure, synchronous computation over populations that have already
// been fetched: no function in this package performs I/O, blocks, or logs.
//
// # Architecture
//
// The package is built from four small pieces:
//
// 1. Normalizer: NormalizeHostname and NormalizeIP turn raw strings into
// canonical comparable forms.
//
// 2. Adapter: AgentIdentity and InfraIdentity project the two source
// shapes onto one Identity (kind, id, hostname set, IP set).
//
// 3. Matcher: finds the record an agent corresponds to. Hostname matches
// win over IP matches, and among several hits the record that came first
// in fetch order wins. LinearMatcher is the reference implementation;
// IndexedMatcher gives the same answers from prebuilt indices.
//
// 4. Engine: Reconcile runs the matcher for every agent against devices and
// then VMs, and partitions everything into matched and unmatched buckets
// with summary counters.
//
// # Diagnostics
//
// Malformed records and ambiguous matches never abort a run. They are
// returned as Diagnostic values on the Report. The only error Reconcile
// returns is a *PreconditionError when a population is nil.
//
// # Usage Example
//
//	report, err := reconcile.Reconcile(agents, devices, vms,
//	    reconcile.WithStrategy(reconcile.StrategyIndexed))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Summary.UnmatchedAgents)
package reconcile
