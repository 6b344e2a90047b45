package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"time"

	"agent-reconciler/core/config"
	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/report"
	"agent-reconciler/feature/inventory"
	"agent-reconciler/feature/nessus"
	"agent-reconciler/feature/netbox"
)

// Loads the cached snapshots and checks that the linear and indexed
// matchers produce byte-identical documents.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	store := inventory.NewStore(cfg.Output.Dir)
	snaps := make(map[inventory.Kind]*inventory.Snapshot, len(inventory.Kinds))
	for _, kind := range inventory.Kinds {
		snap, err := store.Load(kind)
		if err != nil {
			log.Fatalf("%v (run `agent-reconciler fetch` first)", err)
		}
		snaps[kind] = snap
		fmt.Printf("%-15s %6d records  cached %s\n", kind, snap.TotalCount, snap.Timestamp)
	}

	agents := nessus.ToRecords(snaps[inventory.Agents].Data)
	devices := netbox.ToRecords(snaps[inventory.Devices].Data, reconcile.KindDevice)
	vms := netbox.ToRecords(snaps[inventory.VMs].Data, reconcile.KindVM)

	at := time.Now()
	docs := make(map[reconcile.Strategy][]byte, 2)
	for _, strategy := range []reconcile.Strategy{reconcile.StrategyLinear, reconcile.StrategyIndexed} {
		start := time.Now()
		rep, err := reconcile.Reconcile(agents, devices, vms, reconcile.WithStrategy(strategy))
		if err != nil {
			log.Fatal(err)
		}
		took := time.Since(start)

		b, err := report.Marshal(report.Assemble(rep, at))
		if err != nil {
			log.Fatal(err)
		}
		docs[strategy] = b

		s := rep.Summary
		fmt.Printf("\n=== %s (%s) ===\n", strategy, took)
		fmt.Printf("matched devices: %d, matched vms: %d, unmatched agents: %d, diagnostics: %d\n",
			s.MatchedWithDevices, s.MatchedWithVMs, s.UnmatchedAgents, len(rep.Diagnostics))
	}

	if !bytes.Equal(docs[reconcile.StrategyLinear], docs[reconcile.StrategyIndexed]) {
		fmt.Println("\nMISMATCH: strategies disagree")
		os.Exit(1)
	}
	fmt.Println("\nOK: strategies agree")
}
