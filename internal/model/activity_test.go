package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/caldate"
)

func TestActivityJSONOmitsUnsetEndDate(t *testing.T) {
	a := Activity{
		ID:        "act-1",
		Name:      "Berlin Webinar",
		Type:      "webinar",
		StartDate: caldate.MustParse("2025-03-20"),
		Status:    ActivityPlanning,
	}

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "end_date")

	a.EndDate = caldate.MustParse("2025-03-21")
	b, err = json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"end_date":"2025-03-21"`)

	var back Activity
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.EndDate.Equal(a.EndDate))
}
