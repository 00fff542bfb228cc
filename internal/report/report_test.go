package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Unpaid-Developers/core-service/internal/app"
	"github.com/The-Unpaid-Developers/core-service/internal/domain"
)

func sampleResult() app.Result {
	return app.Result{
		Action:   app.ActionRun,
		Database: "solutions",
		Mode:     app.ModeStrict,
		Duration: 25 * time.Millisecond,
		Steps: []app.Step{
			{Collection: "solutionReviews", Collation: domain.CaseInsensitiveEnglish, Outcome: app.OutcomeCreated, Detail: "collation en/2"},
			{Collection: "lookups", Collation: domain.CaseInsensitiveEnglish, Outcome: app.OutcomeFailed, Detail: "collection already exists"},
			{Collection: "queries", Collation: domain.CaseInsensitiveEnglish, Outcome: app.OutcomeNotAttempted},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "run solutions (mode strict)")
	assert.Contains(t, out, "COLLECTION")
	assert.Contains(t, out, "solutionReviews")
	assert.Contains(t, out, "en/2")
	assert.Contains(t, out, "not_attempted")
	assert.Contains(t, out, "collection already exists")
	assert.Contains(t, out, "created=1 failed=1 not_attempted=1 duration=25ms")
}

func TestSummary_EmptyResult(t *testing.T) {
	assert.Equal(t, "duration=0s", Summary(app.Result{}))
}

func TestSummary_GroupsOutcomes(t *testing.T) {
	result := app.Result{Steps: []app.Step{
		{Outcome: app.OutcomeOK},
		{Outcome: app.OutcomeMissing},
		{Outcome: app.OutcomeOK},
	}}
	assert.Equal(t, "ok=2 missing=1 duration=0s", Summary(result))
}
