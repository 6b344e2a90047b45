package nessus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAPI) ListAgents(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *mockAPI) GetAgent(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func TestService_FetchRaw(t *testing.T) {
	list := []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"srv-01"}`),
		json.RawMessage(`{"id":2,"name":"srv-02"}`),
		json.RawMessage(`{"name":"no-id"}`),
	}

	t.Run("Details replace list entries", func(t *testing.T) {
		api := new(mockAPI)
		api.On("ListAgents", mock.Anything).Return(list, nil)
		api.On("GetAgent", mock.Anything, "1").Return(json.RawMessage(`{"id":1,"name":"srv-01","ip":"10.0.0.1"}`), nil)
		api.On("GetAgent", mock.Anything, "2").Return(nil, errors.New("boom"))

		svc := NewService(api, Config{IncludeDetails: true, DetailWorkers: 2}, zap.NewNop())
		got, err := svc.FetchRaw(context.Background())
		require.NoError(t, err)

		require.Len(t, got, 3)
		assert.Contains(t, string(got[0]), "10.0.0.1")
		assert.Equal(t, string(list[1]), string(got[1]))
		assert.Equal(t, string(list[2]), string(got[2]))
		api.AssertExpectations(t)
	})

	t.Run("Details disabled", func(t *testing.T) {
		api := new(mockAPI)
		api.On("ListAgents", mock.Anything).Return(list, nil)

		svc := NewService(api, Config{}, zap.NewNop())
		got, err := svc.FetchRaw(context.Background())
		require.NoError(t, err)

		assert.Equal(t, list, got)
		api.AssertNotCalled(t, "GetAgent", mock.Anything, mock.Anything)
	})

	t.Run("List failure", func(t *testing.T) {
		api := new(mockAPI)
		api.On("ListAgents", mock.Anything).Return(nil, errors.New("unauthorized"))

		svc := NewService(api, Config{IncludeDetails: true}, zap.NewNop())
		got, err := svc.FetchRaw(context.Background())
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestService_FetchAgents(t *testing.T) {
	api := new(mockAPI)
	api.On("ListAgents", mock.Anything).Return([]json.RawMessage{
		json.RawMessage(`{"id":1,"name":"srv-01","ip":"10.0.0.1","status":"online"}`),
	}, nil)

	svc := NewService(api, Config{}, zap.NewNop())
	agents, err := svc.FetchAgents(context.Background())
	require.NoError(t, err)

	require.Len(t, agents, 1)
	assert.Equal(t, "1", agents[0].ID)
	assert.Equal(t, []string{"10.0.0.1"}, agents[0].IPs)
}

func TestService_FetchAgents_Empty(t *testing.T) {
	api := new(mockAPI)
	api.On("ListAgents", mock.Anything).Return([]json.RawMessage{}, nil)

	svc := NewService(api, Config{IncludeDetails: true}, zap.NewNop())
	agents, err := svc.FetchAgents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, agents)
	assert.Empty(t, agents)
}
