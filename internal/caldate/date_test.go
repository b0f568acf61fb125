package caldate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", d.String())

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("01/02/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddDays(t *testing.T) {
	start := MustParse("2025-01-01")

	tests := []struct {
		days int
		want string
	}{
		{0, "2025-01-01"},
		{10, "2025-01-11"},
		{-1, "2024-12-31"},
		{59, "2025-03-01"},
		{-365, "2024-01-02"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, start.AddDays(tt.days).String(), "offset %d", tt.days)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	// US DST starts 2025-03-09; date math must not drift by an hour.
	d := MustParse("2025-03-08").AddDays(2)
	assert.Equal(t, "2025-03-10", d.String())
	assert.Equal(t, 2, MustParse("2025-03-08").DaysUntil(d))
}

func TestDaysUntil(t *testing.T) {
	a := MustParse("2025-03-04")
	b := MustParse("2025-03-06")
	assert.Equal(t, 2, a.DaysUntil(b))
	assert.Equal(t, -2, b.DaysUntil(a))
	assert.Equal(t, 0, a.DaysUntil(a))

	// Far apart enough to overflow a time.Duration.
	far := MustParse("2425-03-04")
	assert.Equal(t, 146097, a.DaysUntil(far))
	assert.Equal(t, -146097, far.DaysUntil(a))
	assert.Equal(t, MustParse("2425-03-04"), a.AddDays(a.DaysUntil(far)))
}

func TestOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	late := time.Date(2025, 3, 6, 23, 59, 0, 0, loc)
	assert.Equal(t, "2025-03-06", Of(late).String())
	assert.True(t, Of(late).Equal(MustParse("2025-03-06")))
}

func TestComparisons(t *testing.T) {
	a := MustParse("2025-01-01")
	b := MustParse("2025-01-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(a))
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Due  Date   `json:"due"`
		List []Date `json:"list"`
	}

	in := wrapper{Due: MustParse("2025-01-11"), List: []Date{MustParse("2025-01-08")}}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-01-11","list":["2025-01-08"]}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, out.Due.Equal(in.Due))
	assert.Equal(t, in.List[0].String(), out.List[0].String())

	var empty wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"due":""}`), &empty))
	assert.True(t, empty.Due.IsZero())

	err = json.Unmarshal([]byte(`{"due":"soon"}`), &empty)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestScanAndValue(t *testing.T) {
	d := MustParse("2025-05-20")
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-05-20", v)

	zero, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, zero)

	var got Date
	require.NoError(t, got.Scan("2025-05-20"))
	assert.True(t, got.Equal(d))
	require.NoError(t, got.Scan([]byte("2025-05-21")))
	assert.Equal(t, "2025-05-21", got.String())
	require.NoError(t, got.Scan(time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-05-22", got.String())
	require.NoError(t, got.Scan(nil))
	assert.True(t, got.IsZero())
	assert.Error(t, got.Scan(42))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "0 days", Pluralize(0))
	assert.Equal(t, "1 day", Pluralize(1))
	assert.Equal(t, "2 days", Pluralize(2))
}
