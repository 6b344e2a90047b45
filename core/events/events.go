package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const flushTimeout = 5 * time.Second

// Publisher sends JSON events to subscribers.
type Publisher interface {
	// Publish marshals payload and sends it on subject.
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// New returns a NATS publisher when cfg is enabled and a no-op one otherwise.
func New(cfg Config, logger *zap.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return Connect(cfg, logger)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                                 { return nil }

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATS publishes events on a core NATS connection.
type NATS struct {
	conn   conn
	prefix string
	logger *zap.Logger
}

// Connect dials the server in cfg.
func Connect(cfg Config, logger *zap.Logger) (*NATS, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait()),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return newNATS(nc, cfg.SubjectPrefix, logger), nil
}

func newNATS(c conn, prefix string, logger *zap.Logger) *NATS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATS{conn: c, prefix: strings.Trim(prefix, "."), logger: logger}
}

// Subject returns the fully qualified subject for name.
func (n *NATS) Subject(name string) string {
	if n.prefix == "" {
		return name
	}
	return n.prefix + "." + name
}

// Publish sends payload as JSON and waits for the server to acknowledge
// the flush, bounded by ctx.
func (n *NATS) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// FlushWithContext rejects contexts without a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}

	subj := n.Subject(subject)
	if err := n.conn.Publish(subj, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subj, err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush %s: %w", subj, err)
	}

	n.logger.Debug("Published event", zap.String("subject", subj), zap.Int("bytes", len(data)))
	return nil
}

// Close drains pending messages and closes the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}
