package datex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.March, 1), d)

	for _, bad := range []string{"", "2024/03/01", "01-03-2024", "2024-02-30", "yesterday"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		from Date
		n    int
		want Date
	}{
		{New(2024, time.January, 31), 1, New(2024, time.February, 29)},
		{New(2023, time.January, 31), 1, New(2023, time.February, 28)},
		{New(2024, time.March, 31), 1, New(2024, time.April, 30)},
		{New(2024, time.January, 15), 1, New(2024, time.February, 15)},
		{New(2024, time.December, 31), 1, New(2025, time.January, 31)},
		{New(2024, time.March, 31), -1, New(2024, time.February, 29)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.AddMonths(tc.n), "%s + %d months", tc.from, tc.n)
	}
}

func TestAddYears(t *testing.T) {
	assert.Equal(t, New(2025, time.February, 28), New(2024, time.February, 29).AddYears(1))
	assert.Equal(t, New(2025, time.June, 10), New(2024, time.June, 10).AddYears(1))
}

func TestDaysUntil(t *testing.T) {
	a := New(2024, time.March, 1)
	assert.Equal(t, 1, a.DaysUntil(New(2024, time.March, 2)))
	assert.Equal(t, -29, a.DaysUntil(New(2024, time.February, 1)))
	assert.Equal(t, 0, a.DaysUntil(a))
}

func TestFromTimeAndToday(t *testing.T) {
	at := time.Date(2024, time.May, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, New(2024, time.May, 5), FromTime(at))
	assert.Equal(t, New(2024, time.May, 5), Today(func() time.Time { return at }))
	assert.Equal(t, New(2024, time.May, 1), FromTime(at).StartOfMonth())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Due  Date  `json:"due"`
		Paid *Date `json:"paid"`
	}
	out, err := json.Marshal(payload{Due: New(2024, time.January, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-01-02","paid":null}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-02-03","paid":"2024-02-04"}`), &in))
	assert.Equal(t, New(2024, time.February, 3), in.Due)
	require.NotNil(t, in.Paid)
	assert.Equal(t, New(2024, time.February, 4), *in.Paid)

	err = json.Unmarshal([]byte(`{"due":"03/02/2024"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-07-04"))
	assert.Equal(t, New(2024, time.July, 4), d)

	require.NoError(t, d.Scan([]byte("2024-07-05 00:00:00+00:00")))
	assert.Equal(t, New(2024, time.July, 5), d)

	require.NoError(t, d.Scan(time.Date(2024, time.July, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, New(2024, time.July, 6), d)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-06", v)

	assert.Error(t, d.Scan(42))
}
