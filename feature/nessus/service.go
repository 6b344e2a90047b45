package nessus

import (
	"context"
	"encoding/json"
	"strings"

	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the part of the Nessus client the service depends on.
type API interface {
	Ping(ctx context.Context) error
	ListAgents(ctx context.Context) ([]json.RawMessage, error)
	GetAgent(ctx context.Context, id string) (json.RawMessage, error)
}

// Service fetches and converts Nessus agents.
type Service struct {
	api            API
	logger         *zap.Logger
	includeDetails bool
	workers        int
}

// NewService creates a new Nessus service.
func NewService(api API, cfg Config, logger *zap.Logger) *Service {
	workers := cfg.DetailWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		api:            api,
		logger:         logger,
		includeDetails: cfg.IncludeDetails,
		workers:        workers,
	}
}

// Ping verifies the Nessus connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// FetchRaw lists every agent and, when enabled, replaces each entry with
// its detail payload. A failed detail request keeps the list entry.
// The result is never nil.
func (s *Service) FetchRaw(ctx context.Context) ([]json.RawMessage, error) {
	agents, err := s.api.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Fetched Nessus agents", zap.Int("count", len(agents)))

	if !s.includeDetails || len(agents) == 0 {
		return agents, nil
	}

	out := make([]json.RawMessage, len(agents))
	copy(out, agents)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, raw := range agents {
		i := i
		id := agentID(raw)
		if id == "" {
			continue
		}
		g.Go(func() error {
			details, err := s.api.GetAgent(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("Agent details unavailable, using list entry",
					zap.String("agent_id", id), zap.Error(err))
				return nil
			}
			if len(details) > 0 && json.Valid(details) {
				out[i] = details
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAgents fetches and converts all agents.
func (s *Service) FetchAgents(ctx context.Context) ([]reconcile.AgentRecord, error) {
	raws, err := s.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return ToRecords(raws), nil
}

func agentID(raw json.RawMessage) string {
	p, err := decodePayload(raw)
	if err != nil || p.ID == nil {
		return ""
	}
	return strings.TrimSpace(utils.ToString(p.ID))
}

// Statistics summarizes a set of raw agent payloads.
type Statistics struct {
	TotalAgents int            `json:"total_agents"`
	ByStatus    map[string]int `json:"by_status"`
	ByPlatform  map[string]int `json:"by_platform"`
	ByVersion   map[string]int `json:"by_version"`
}

// Stats counts agents by status, platform and version. Missing values are
// counted as "unknown".
func Stats(raws []json.RawMessage) Statistics {
	st := Statistics{
		TotalAgents: len(raws),
		ByStatus:    make(map[string]int),
		ByPlatform:  make(map[string]int),
		ByVersion:   make(map[string]int),
	}
	for _, raw := range raws {
		p, _ := decodePayload(raw)
		st.ByStatus[orUnknown(p.Status)]++
		st.ByPlatform[orUnknown(p.Platform)]++
		st.ByVersion[orUnknown(p.version())]++
	}
	return st
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
