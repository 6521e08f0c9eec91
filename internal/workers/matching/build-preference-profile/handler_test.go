// internal/workers/matching/build-preference-profile/handler_test.go
package buildpreferenceprofile

import (
	"context"
	"testing"
	"time"

	"festival-matcher/internal/catalog"
	"festival-matcher/internal/common/config"
	"festival-matcher/internal/common/errors"
	"festival-matcher/internal/common/logger"
	"festival-matcher/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fixedCatalog struct {
	snap *catalog.Snapshot
}

func (f fixedCatalog) Snapshot() *catalog.Snapshot { return f.snap }

func newTestHandler(t *testing.T, snap *catalog.Snapshot) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		Catalog: fixedCatalog{snap: snap},
		Logger:  logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func catalogSnapshot(min, max float64) *catalog.Snapshot {
	return &catalog.Snapshot{
		Version: "v1",
		Stats: catalog.Stats{
			Count: 2,
			Costs: matching.CatalogStats{CostMin: min, CostMax: max, HasCosts: true},
		},
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
		check     func(t *testing.T, in *Input)
	}{
		{
			name:      "empty variables",
			variables: "",
			check: func(t *testing.T, in *Input) {
				assert.Nil(t, in.Answers)
			},
		},
		{
			name:      "answers and request id",
			variables: `{"requestId": "req-1", "answers": {"genres": ["techno"], "budget": "500-1000"}}`,
			check: func(t *testing.T, in *Input) {
				assert.Equal(t, "req-1", in.RequestID)
				assert.Equal(t, []interface{}{"techno"}, in.Answers["genres"])
			},
		},
		{
			name:      "null answers",
			variables: `{"answers": null}`,
			check: func(t *testing.T, in *Input) {
				assert.Nil(t, in.Answers)
			},
		},
		{name: "answers not an object", variables: `{"answers": ["techno"]}`, wantErr: true},
		{name: "request id not a string", variables: `{"requestId": 7}`, wantErr: true},
		{name: "malformed json", variables: `{"answers": {`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := parseInput(tt.variables)
			if tt.wantErr {
				require.Error(t, err)
				stdErr, ok := err.(*errors.StandardError)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeProfileParseFailed, stdErr.Code)
				return
			}
			require.NoError(t, err)
			tt.check(t, in)
		})
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BuildsProfileAndWeights(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{
		RequestID: "req-42",
		Answers: matching.Answers{
			"genres":    []interface{}{"Techno"},
			"budget":    map[string]interface{}{"min": 300.0, "max": 900.0},
			"months":    []interface{}{"July", "August"},
			"region":    "Western Europe",
			"crowdSize": "large",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "req-42", out.RequestID)
	assert.Equal(t, []string{"techno"}, out.Profile.Genres)
	assert.Equal(t, "western-europe", out.Profile.Region)
	assert.Equal(t, []time.Month{time.July, time.August}, out.Profile.Months)
	assert.InDelta(t, 1.0, out.Weights.Sum(), 1e-9)
	assert.Equal(t, []matching.Criterion{matching.CriterionVibe, matching.CriterionPracticality}, out.Unanswered)
}

func TestHandler_Execute_EmptyAnswers(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, matching.RegionAnywhere, out.Profile.Region)
	assert.False(t, out.Profile.BudgetSpecified)
	assert.Equal(t, matching.AllCriteria, out.Unanswered)
	assert.Equal(t, matching.SelectWeights(out.Profile, matching.CatalogStats{}), out.Weights)
	assert.Less(t, out.Weights[matching.CriterionGenre], matching.BaseWeights()[matching.CriterionGenre])
}

func TestHandler_Execute_UsesCatalogCostRange(t *testing.T) {
	answers := matching.Answers{"budget": map[string]interface{}{"min": 100.0, "max": 200.0}}

	withoutCatalog, err := newTestHandler(t, nil).Execute(context.Background(), &Input{Answers: answers})
	require.NoError(t, err)

	wide, err := newTestHandler(t, catalogSnapshot(50, 5000)).Execute(context.Background(), &Input{Answers: answers})
	require.NoError(t, err)

	expected := matching.SelectWeights(wide.Profile, matching.CatalogStats{CostMin: 50, CostMax: 5000, HasCosts: true})
	assert.Equal(t, expected, wide.Weights)
	assert.InDelta(t, 1.0, wide.Weights.Sum(), 1e-9)
	assert.Equal(t, withoutCatalog.Profile, wide.Profile)
}

func TestHandler_NeutralOutput(t *testing.T) {
	h := newTestHandler(t, nil)
	out := h.neutralOutput("req-1")

	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, matching.AllCriteria, out.Unanswered)
	assert.InDelta(t, 1.0, out.Weights.Sum(), 1e-9)
}

// ==========================
// Configuration Tests
// ==========================

func TestFromAppConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), FromAppConfig(nil))

	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 1500},
	}}
	c := FromAppConfig(cfg)
	assert.False(t, c.Enabled)
	assert.Equal(t, 1500*time.Millisecond, c.Timeout)

	c = FromAppConfig(&config.Config{})
	assert.True(t, c.Enabled)
	assert.Equal(t, 30*time.Second, c.Timeout)
}

func TestNewHandler_InvalidConfig(t *testing.T) {
	_, err := NewHandler(HandlerOptions{Config: &Config{Enabled: true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), TaskType)
}

func TestToStandardError(t *testing.T) {
	stdErr := errors.NewProfileParseFailedError(assert.AnError)
	assert.Same(t, stdErr, toStandardError(stdErr))
	assert.Equal(t, errors.ErrCodeInternal, toStandardError(assert.AnError).Code)
}

func BenchmarkHandler_Execute(b *testing.B) {
	h, err := NewHandler(HandlerOptions{Logger: logger.NewNoOpLogger()})
	require.NoError(b, err)
	input := &Input{Answers: matching.Answers{
		"genres": "techno, house, edm",
		"budget": "1000-2000",
		"months": "summer",
		"region": "Northern Europe",
	}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
