package comparison

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"agent-reconciler/core/reconcile"
	"agent-reconciler/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, src *fakeSource, mutate func(*Deps)) (*fiber.App, *Service) {
	svc := newTestService(t, src, mutate)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func decode(t *testing.T, body io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestHandleRun(t *testing.T) {
	app, _ := setupTestApp(t, newFakeSource(), nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/comparison/run?strategy=linear", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body Result
	decode(t, resp.Body, &body)
	assert.Equal(t, "run-1", body.RunID)
	assert.Equal(t, reconcile.StrategyLinear, body.Strategy)
	assert.Equal(t, 3, body.Document.Summary.TotalAgents)
	assert.Equal(t, SourceAPI, body.Sources[inventory.Agents])
}

func TestHandleRun_BadStrategy(t *testing.T) {
	app, _ := setupTestApp(t, newFakeSource(), nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/comparison/run?strategy=fuzzy", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRun_SourceFailure(t *testing.T) {
	src := newFakeSource()
	src.errs[inventory.Agents] = errors.New("nessus unauthorized")
	app, _ := setupTestApp(t, src, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/comparison/run", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decode(t, resp.Body, &body)
	assert.Contains(t, body["error"], "nessus unauthorized")
}

func TestHandleLatest(t *testing.T) {
	app, _ := setupTestApp(t, newFakeSource(), nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, err = app.Test(httptest.NewRequest("POST", "/comparison/run", nil))
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest("GET", "/comparison/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var doc map[string]any
	decode(t, resp.Body, &doc)
	assert.Equal(t, "comparison", doc["data_type"])
	assert.Len(t, doc["unmatched_agents"], 1)
}

func TestHandleHistory(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupTestApp(t, newFakeSource(), nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/comparison/history", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("Bad limit", func(t *testing.T) {
		app, _ := setupTestApp(t, newFakeSource(), nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/comparison/history?limit=-1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Enabled", func(t *testing.T) {
		hist := newSQLiteHistory(t)
		app, _ := setupTestApp(t, newFakeSource(), func(d *Deps) { d.History = hist })

		_, err := app.Test(httptest.NewRequest("POST", "/comparison/run", nil))
		require.NoError(t, err)

		resp, err := app.Test(httptest.NewRequest("GET", "/comparison/history?limit=5", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var runs []ComparisonRun
		decode(t, resp.Body, &runs)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-1", runs[0].RunID)
	})
}

func TestHandleSearch(t *testing.T) {
	app, _ := setupTestApp(t, newFakeSource(), nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison/search/10.0.0.9", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res reconcile.SearchResult
	decode(t, resp.Body, &res)
	assert.Len(t, res.Agents, 1)
	assert.Empty(t, res.Devices)
	assert.Len(t, res.VMs, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/comparison/search/not-an-ip", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
