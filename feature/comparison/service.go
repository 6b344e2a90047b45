package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"agent-reconciler/core/events"
	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/report"
	"agent-reconciler/feature/inventory"
	"agent-reconciler/feature/nessus"
	"agent-reconciler/feature/netbox"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ResultsFile is the name of the comparison document in the output directory.
const ResultsFile = "comparison_results.json"

var (
	// ErrNoResult is returned by Latest before any comparison has completed.
	ErrNoResult = errors.New("no comparison has been run yet")
	// ErrHistoryDisabled is returned by History without a database.
	ErrHistoryDisabled = errors.New("run history is disabled")
	// ErrInvalidIP is returned by SearchIP for unparsable addresses.
	ErrInvalidIP = errors.New("invalid IP address")
)

// AgentSource fetches raw scanner agents.
type AgentSource interface {
	FetchRaw(ctx context.Context) ([]json.RawMessage, error)
}

// InfraSource fetches raw devices and VMs with their addresses attached.
type InfraSource interface {
	FetchRawDevices(ctx context.Context) ([]json.RawMessage, error)
	FetchRawVirtualMachines(ctx context.Context) ([]json.RawMessage, error)
}

// Source tells where a population came from.
type Source string

const (
	SourceAPI   Source = "api"
	SourceCache Source = "cache"
)

// RunOptions tunes a single run.
type RunOptions struct {
	// NoCache bypasses snapshots even when output.prefer_cache is set.
	NoCache bool
	// Strategy selects the matcher. Empty uses the configured one.
	Strategy reconcile.Strategy
	// Upload archives the document when an archive is configured.
	Upload bool
}

// Result is a finished run.
type Result struct {
	RunID      string                    `json:"run_id"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
	Strategy   reconcile.Strategy        `json:"strategy"`
	Sources    map[inventory.Kind]Source `json:"sources"`
	Path       string                    `json:"path"`
	ArchiveKey string                    `json:"archive_key,omitempty"`
	Document   *report.Document          `json:"document"`
}

func (r *Result) source() string {
	var api, cache int
	for _, src := range r.Sources {
		if src == SourceCache {
			cache++
		} else {
			api++
		}
	}
	switch {
	case cache == 0:
		return string(SourceAPI)
	case api == 0:
		return string(SourceCache)
	default:
		return "mixed"
	}
}

// Deps are the collaborators of a Service. Archive, History and Events
// are optional.
type Deps struct {
	Agents  AgentSource
	Infra   InfraSource
	Store   *inventory.Store
	Output  inventory.Config
	Config  Config
	Archive Archiver
	History *History
	Events  events.Publisher
	Logger  *zap.Logger
}

// Service runs comparisons and keeps the latest result.
type Service struct {
	agents   AgentSource
	infra    InfraSource
	store    *inventory.Store
	output   inventory.Config
	cfg      Config
	strategy reconcile.Strategy
	archiver Archiver
	history  *History
	events   events.Publisher
	logger   *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	latest *Result

	now   func() time.Time
	newID func() string
}

// NewService creates a comparison service. An unknown configured
// strategy falls back to the indexed one.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy, err := ParseStrategy(d.Config.Strategy)
	if err != nil {
		logger.Warn("Falling back to indexed strategy", zap.Error(err))
		strategy = reconcile.StrategyIndexed
	}
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		agents:   d.Agents,
		infra:    d.Infra,
		store:    d.Store,
		output:   d.Output,
		cfg:      d.Config,
		strategy: strategy,
		archiver: d.Archive,
		history:  d.History,
		events:   pub,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// DefaultRunOptions returns the run options implied by the configuration.
func (s *Service) DefaultRunOptions() RunOptions {
	return RunOptions{Strategy: s.strategy, Upload: s.cfg.Upload}
}

// Run performs one comparison: it loads the three populations, reconciles
// them, writes comparison_results.json and then archives, records and
// announces the result. Only the first three steps can fail the run.
// Concurrent calls with the same options share one execution.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Strategy == "" {
		opts.Strategy = s.strategy
	}

	key := fmt.Sprintf("%s/%t/%t", opts.Strategy, opts.NoCache, opts.Upload)
	ch := s.group.DoChan(key, func() (any, error) {
		// A shared run must outlive the caller that started it.
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout())
		defer cancel()
		return s.run(runCtx, opts)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			s.logger.Debug("Joined a running comparison")
		}
		return r.Val.(*Result), nil
	}
}

func (s *Service) run(ctx context.Context, opts RunOptions) (*Result, error) {
	res := &Result{
		RunID:     s.newID(),
		StartedAt: s.now().UTC(),
		Strategy:  opts.Strategy,
	}
	l := s.logger.With(zap.String("run_id", res.RunID))
	l.Info("Starting comparison", zap.String("strategy", string(opts.Strategy)), zap.Bool("no_cache", opts.NoCache))

	pops, err := s.populations(ctx, s.output.PreferCache && !opts.NoCache, s.output.CacheMaxAge())
	if err != nil {
		l.Error("Failed to load populations", zap.Error(err))
		return nil, err
	}
	res.Sources = pops.sources

	rep, err := reconcile.Reconcile(
		nessus.ToRecords(pops.agents),
		netbox.ToRecords(pops.devices, reconcile.KindDevice),
		netbox.ToRecords(pops.vms, reconcile.KindVM),
		reconcile.WithStrategy(opts.Strategy),
	)
	if err != nil {
		return nil, err
	}
	logDiagnostics(l, rep.Diagnostics)

	res.FinishedAt = s.now().UTC()
	res.Document = report.Assemble(rep, res.FinishedAt)
	res.Path = filepath.Join(s.store.Dir(), ResultsFile)
	if err := report.WriteFile(res.Path, res.Document); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}

	sum := rep.Summary
	l.Info("Comparison completed",
		zap.Int("agents", sum.TotalAgents),
		zap.Int("matched_devices", sum.MatchedWithDevices),
		zap.Int("matched_vms", sum.MatchedWithVMs),
		zap.Int("unmatched_agents", sum.UnmatchedAgents),
		zap.Int("diagnostics", len(rep.Diagnostics)),
		zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)),
		zap.String("path", res.Path))

	if opts.Upload {
		s.archive(ctx, l, res)
	}
	s.record(ctx, l, res)
	s.publish(ctx, l, res)

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return res, nil
}

func logDiagnostics(l *zap.Logger, diags []reconcile.Diagnostic) {
	for _, d := range diags {
		l.Warn("Reconciliation diagnostic",
			zap.String("code", string(d.Code)),
			zap.String("kind", string(d.Kind)),
			zap.String("record_id", d.RecordID),
			zap.String("message", d.Message))
	}
}

func (s *Service) record(ctx context.Context, l *zap.Logger, res *Result) {
	if s.history == nil {
		return
	}
	run := newRun(res)
	if err := s.history.Record(ctx, &run); err != nil {
		l.Warn("Failed to record run history", zap.Error(err))
	}
}

type populations struct {
	agents  []json.RawMessage
	devices []json.RawMessage
	vms     []json.RawMessage
	sources map[inventory.Kind]Source
}

type fetchFunc func(context.Context) ([]json.RawMessage, error)

// populations loads the three populations concurrently. Any failure
// cancels the others and fails the whole load.
func (s *Service) populations(ctx context.Context, useCache bool, maxAge time.Duration) (*populations, error) {
	p := &populations{sources: make(map[inventory.Kind]Source, len(inventory.Kinds))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	load := func(kind inventory.Kind, dst *[]json.RawMessage, fetch fetchFunc) {
		g.Go(func() error {
			data, src, err := s.load(gctx, kind, useCache, maxAge, fetch)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", kind, err)
			}
			*dst = data
			mu.Lock()
			p.sources[kind] = src
			mu.Unlock()
			return nil
		})
	}
	load(inventory.Agents, &p.agents, s.agents.FetchRaw)
	load(inventory.Devices, &p.devices, s.infra.FetchRawDevices)
	load(inventory.VMs, &p.vms, s.infra.FetchRawVirtualMachines)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, kind inventory.Kind, useCache bool, maxAge time.Duration, fetch fetchFunc) ([]json.RawMessage, Source, error) {
	if useCache {
		snap, err := s.store.LoadFresh(kind, maxAge)
		if err == nil {
			s.logger.Info("Using cached snapshot",
				zap.String("kind", string(kind)),
				zap.Int("count", snap.TotalCount),
				zap.String("timestamp", snap.Timestamp))
			return snap.Data, SourceCache, nil
		}
		if !errors.Is(err, inventory.ErrNoSnapshot) {
			s.logger.Warn("Ignoring unreadable snapshot", zap.String("kind", string(kind)), zap.Error(err))
		}
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		data = make([]json.RawMessage, 0)
	}
	if _, err := s.store.Save(kind, data); err != nil {
		s.logger.Warn("Failed to cache snapshot", zap.String("kind", string(kind)), zap.Error(err))
	}
	return data, SourceAPI, nil
}

// Fetch loads one population from its API and caches it.
func (s *Service) Fetch(ctx context.Context, kind inventory.Kind) ([]json.RawMessage, error) {
	var fetch fetchFunc
	switch kind {
	case inventory.Agents:
		fetch = s.agents.FetchRaw
	case inventory.Devices:
		fetch = s.infra.FetchRawDevices
	case inventory.VMs:
		fetch = s.infra.FetchRawVirtualMachines
	default:
		return nil, fmt.Errorf("unknown population %q", kind)
	}
	data, _, err := s.load(ctx, kind, false, 0, fetch)
	return data, err
}

// Latest returns the newest comparison document, falling back to the
// results file written by an earlier process.
func (s *Service) Latest() (*report.Document, error) {
	s.mu.RLock()
	res := s.latest
	s.mu.RUnlock()
	if res != nil {
		return res.Document, nil
	}

	var doc report.Document
	if err := report.ReadFile(filepath.Join(s.store.Dir(), ResultsFile), &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoResult
		}
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return &doc, nil
}

// History lists recorded runs, newest first, capped at the configured limit.
func (s *Service) History(ctx context.Context, limit int) ([]ComparisonRun, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if most := s.cfg.HistoryLimit; most > 0 && (limit <= 0 || limit > most) {
		limit = most
	}
	return s.history.List(ctx, limit)
}

// SearchIP lists the agents, devices and VMs carrying ip. Snapshots of any
// age are used unless noCache is set.
func (s *Service) SearchIP(ctx context.Context, ip string, noCache bool) (*reconcile.SearchResult, error) {
	if _, ok := reconcile.NormalizeIP(ip); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	pops, err := s.populations(ctx, !noCache, 0)
	if err != nil {
		return nil, err
	}
	return reconcile.SearchByIP(ip,
		nessus.ToRecords(pops.agents),
		netbox.ToRecords(pops.devices, reconcile.KindDevice),
		netbox.ToRecords(pops.vms, reconcile.KindVM))
}
