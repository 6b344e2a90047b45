package netbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"agent-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	devices, vms, deviceIfaces, vmIfaces, ips []json.RawMessage
	err                                       error
}

func (f *fakeAPI) Ping(context.Context) error { return f.err }
func (f *fakeAPI) ListDevices(context.Context) ([]json.RawMessage, error) {
	return f.devices, nil
}
func (f *fakeAPI) ListVirtualMachines(context.Context) ([]json.RawMessage, error) {
	return f.vms, nil
}
func (f *fakeAPI) ListDeviceInterfaces(context.Context) ([]json.RawMessage, error) {
	return f.deviceIfaces, nil
}
func (f *fakeAPI) ListVMInterfaces(context.Context) ([]json.RawMessage, error) {
	return f.vmIfaces, nil
}
func (f *fakeAPI) ListIPAddresses(context.Context) ([]json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ips, nil
}

func raws(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, s := range items {
		out = append(out, json.RawMessage(s))
	}
	return out
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		devices: raws(
			`{"id":1,"name":"srv-01","status":{"value":"active"},"primary_ip":{"address":"10.0.0.1/24"}}`,
			`{"id":2,"name":"srv-02","status":{"value":"failed"}}`,
		),
		vms: raws(
			`{"id":1,"name":"vm-01","status":{"value":"active"}}`,
		),
		deviceIfaces: raws(
			`{"id":10,"name":"eth0","device":{"id":1}}`,
			`{"id":11,"name":"eth1","device":{"id":1}}`,
			`{"id":20,"name":"eth0","device":{"id":2}}`,
		),
		vmIfaces: raws(
			`{"id":10,"name":"ens3","virtual_machine":{"id":1}}`,
		),
		ips: raws(
			`{"id":1,"address":"10.0.0.1/24","assigned_object_type":"dcim.interface","assigned_object_id":10}`,
			`{"id":2,"address":"10.0.5.1/24","assigned_object_type":"dcim.interface","assigned_object_id":11,"dns_name":"srv-01-mgmt.corp"}`,
			`{"id":3,"address":"10.9.0.1/24","assigned_object_type":"virtualization.vminterface","assigned_object_id":10}`,
			`{"id":4,"address":"10.9.9.9/24","assigned_object_type":null,"assigned_object_id":null}`,
		),
	}
}

func TestService_FetchDevices(t *testing.T) {
	svc := NewService(newFakeAPI(), zap.NewNop())

	devices, err := svc.FetchDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "1", devices[0].ID)
	assert.Equal(t, reconcile.KindDevice, devices[0].Kind)
	assert.Equal(t, []string{"10.0.0.1", "10.0.5.1"}, devices[0].IPs)
	assert.Equal(t, []string{"srv-01-mgmt.corp"}, devices[0].DNSNames)

	assert.Equal(t, reconcile.InfraOffline, devices[1].Status)
	assert.Empty(t, devices[1].IPs)
}

// TestService_FetchVirtualMachines tests that VM interfaces only pick up
// addresses assigned to VM interfaces, even when ids collide with device
// interfaces.
func TestService_FetchVirtualMachines(t *testing.T) {
	svc := NewService(newFakeAPI(), zap.NewNop())

	vms, err := svc.FetchVirtualMachines(context.Background())
	require.NoError(t, err)
	require.Len(t, vms, 1)

	assert.Equal(t, reconcile.KindVM, vms[0].Kind)
	assert.Equal(t, []string{"10.9.0.1"}, vms[0].IPs)
}

func TestService_FetchRawDevices_Enriched(t *testing.T) {
	svc := NewService(newFakeAPI(), zap.NewNop())

	out, err := svc.FetchRawDevices(context.Background())
	require.NoError(t, err)

	var dev struct {
		Interfaces []struct {
			ID          int               `json:"id"`
			IPAddresses []json.RawMessage `json:"ip_addresses"`
		} `json:"interfaces"`
	}
	require.NoError(t, json.Unmarshal(out[1], &dev))
	require.Len(t, dev.Interfaces, 1)
	assert.Equal(t, 20, dev.Interfaces[0].ID)
	assert.NotNil(t, dev.Interfaces[0].IPAddresses)
	assert.Empty(t, dev.Interfaces[0].IPAddresses)
}

func TestService_EmptyPopulations(t *testing.T) {
	svc := NewService(&fakeAPI{}, zap.NewNop())

	devices, err := svc.FetchDevices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestService_FetchError(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("connection refused")
	svc := NewService(api, zap.NewNop())

	devices, err := svc.FetchDevices(context.Background())
	assert.Error(t, err)
	assert.Nil(t, devices)
	assert.Error(t, svc.Ping(context.Background()))
}
