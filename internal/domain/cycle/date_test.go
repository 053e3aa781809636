package cycle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 15}, d)
	assert.Equal(t, "2024-03-15", d.String())

	for _, bad := range []string{"", "2024-3-15", "15/03/2024", "2024-02-30", "2024-03-15T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDateLong(t *testing.T) {
	cases := map[string]string{
		"2024-03-15": "March 15th, 2024",
		"2024-01-01": "January 1st, 2024",
		"2024-01-02": "January 2nd, 2024",
		"2024-01-03": "January 3rd, 2024",
		"2024-01-04": "January 4th, 2024",
		"2024-01-11": "January 11th, 2024",
		"2024-01-12": "January 12th, 2024",
		"2024-01-13": "January 13th, 2024",
		"2024-01-21": "January 21st, 2024",
		"2024-01-22": "January 22nd, 2024",
		"2024-01-23": "January 23rd, 2024",
		"2024-12-31": "December 31st, 2024",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		require.NoError(t, err)
		assert.Equal(t, want, d.Long(), in)
	}
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-14", DateOf(instant).String())
	assert.Equal(t, "2024-03-15", DateOf(instant.In(tokyo)).String())
}

func TestDateCompare(t *testing.T) {
	a := Date{Year: 2024, Month: time.March, Day: 15}
	b := Date{Year: 2024, Month: time.April, Day: 1}

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, Date{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestDateJSON(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 5}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-05"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05"`), &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`20240305`), &back))
	assert.Error(t, json.Unmarshal([]byte(`"05.03.2024"`), &back))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-15", d.String())

	require.NoError(t, d.Scan("2023-11-02"))
	assert.Equal(t, "2023-11-02", d.String())

	require.NoError(t, d.Scan([]byte("2022-07-09T00:00:00Z")))
	assert.Equal(t, "2022-07-09", d.String())

	assert.Error(t, d.Scan(nil))
	assert.Error(t, d.Scan(42))

	v, err := Date{Year: 2024, Month: time.March, Day: 15}.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", v)
}
