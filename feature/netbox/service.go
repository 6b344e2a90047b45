package netbox

import (
	"context"
	"encoding/json"
	"fmt"

	"agent-reconciler/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the part of the Netbox client the service depends on.
type API interface {
	Ping(ctx context.Context) error
	ListDevices(ctx context.Context) ([]json.RawMessage, error)
	ListVirtualMachines(ctx context.Context) ([]json.RawMessage, error)
	ListDeviceInterfaces(ctx context.Context) ([]json.RawMessage, error)
	ListVMInterfaces(ctx context.Context) ([]json.RawMessage, error)
	ListIPAddresses(ctx context.Context) ([]json.RawMessage, error)
}

// Service fetches devices and VMs together with their addresses.
type Service struct {
	api    API
	logger *zap.Logger
}

// NewService creates a new Netbox service.
func NewService(api API, logger *zap.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Ping verifies the Netbox connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// FetchRawDevices returns device payloads with their interfaces and the
// interfaces' IP addresses attached. The result is never nil.
func (s *Service) FetchRawDevices(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetch(ctx, "devices", s.api.ListDevices, s.api.ListDeviceInterfaces, assignedDeviceInterface, false)
}

// FetchRawVirtualMachines is FetchRawDevices for virtual machines.
func (s *Service) FetchRawVirtualMachines(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetch(ctx, "virtual machines", s.api.ListVirtualMachines, s.api.ListVMInterfaces, assignedVMInterface, true)
}

// FetchDevices fetches and converts all devices.
func (s *Service) FetchDevices(ctx context.Context) ([]reconcile.InfraRecord, error) {
	raws, err := s.FetchRawDevices(ctx)
	if err != nil {
		return nil, err
	}
	return ToRecords(raws, reconcile.KindDevice), nil
}

// FetchVirtualMachines fetches and converts all virtual machines.
func (s *Service) FetchVirtualMachines(ctx context.Context) ([]reconcile.InfraRecord, error) {
	raws, err := s.FetchRawVirtualMachines(ctx)
	if err != nil {
		return nil, err
	}
	return ToRecords(raws, reconcile.KindVM), nil
}

type listFunc func(ctx context.Context) ([]json.RawMessage, error)

func (s *Service) fetch(ctx context.Context, what string, listRecords, listIfaces listFunc, assignedType string, vm bool) ([]json.RawMessage, error) {
	var records, ifaces, ips []json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = listRecords(gctx)
		return err
	})
	g.Go(func() (err error) {
		ifaces, err = listIfaces(gctx)
		return err
	})
	g.Go(func() (err error) {
		ips, err = s.api.ListIPAddresses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Fetched Netbox "+what,
		zap.Int("count", len(records)),
		zap.Int("interfaces", len(ifaces)),
		zap.Int("ip_addresses", len(ips)),
	)

	grouped, err := groupInterfaces(ifaces, groupIPs(ips, assignedType), vm)
	if err != nil {
		return nil, fmt.Errorf("failed to attach addresses to %s: %w", what, err)
	}
	out, err := enrich(records, grouped)
	if err != nil {
		return nil, fmt.Errorf("failed to attach interfaces to %s: %w", what, err)
	}
	return out, nil
}
