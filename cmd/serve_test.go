//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turia-capital/scout-cli/internal/model"
	"github.com/turia-capital/scout-cli/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedRun(t *testing.T, st store.Store, dataset string) *model.ScanRun {
	t.Helper()
	run := &model.ScanRun{
		Dataset:      dataset,
		ModelVersion: "v3",
		Counts: model.FunnelCounts{
			RecordsIn: 10, RiskyExcluded: 1, AfterRiskFilter: 9,
			FilteredOut: 7, Opportunities: 2,
		},
	}
	opp := model.Opportunity{
		EstimatedPrice:  400000,
		ProfitPotential: 100000,
		MarginPct:       25,
		InvestmentScore: 72.5,
		Rank:            1,
	}
	opp.PropertyCode = "100"
	opp.Price = 200000
	opp.Neighborhood = "Benimaclet"

	second := opp
	second.PropertyCode = "200"
	second.InvestmentScore = 55
	second.Rank = 2

	require.NoError(t, st.SaveRun(context.Background(), run, []model.Opportunity{opp, second}))
	return run
}

func TestBuildMuxHealth(t *testing.T) {
	mux := buildMux(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildMuxListRuns(t *testing.T) {
	st := newTestStore(t)
	seedRun(t, st, "data/processed/listings.csv")
	seedRun(t, st, "data/processed/other.csv")
	mux := buildMux(st)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var runs []model.ScanRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)
}

func TestBuildMuxListRunsDatasetFilter(t *testing.T) {
	st := newTestStore(t)
	seedRun(t, st, "data/processed/listings.csv")
	seedRun(t, st, "data/processed/other.csv")
	mux := buildMux(st)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs?dataset=data/processed/other.csv", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var runs []model.ScanRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "data/processed/other.csv", runs[0].Dataset)
}

func TestBuildMuxGetRun(t *testing.T) {
	st := newTestStore(t)
	run := seedRun(t, st, "data/processed/listings.csv")
	mux := buildMux(st)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+run.ID, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got model.ScanRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Counts, got.Counts)
}

func TestBuildMuxGetRunNotFound(t *testing.T) {
	mux := buildMux(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/nonexistent", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBuildMuxListOpportunities(t *testing.T) {
	st := newTestStore(t)
	run := seedRun(t, st, "data/processed/listings.csv")
	mux := buildMux(st)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+run.ID+"/opportunities?limit=1", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var opps []model.Opportunity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opps))
	require.Len(t, opps, 1)
	assert.Equal(t, "100", opps[0].PropertyCode)
	assert.Equal(t, 1, opps[0].Rank)
}
