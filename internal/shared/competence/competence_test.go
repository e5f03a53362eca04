package competence_test

import (
	"testing"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMonth(t *testing.T) {
	got, err := competence.ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 1), got)

	again, err := competence.ParseMonth(competence.Format(got))
	require.NoError(t, err)
	assert.Equal(t, got, again)

	for _, bad := range []string{"2024-13", "2024-00", "abc", "2024/01", "2024-1", " 2024-01", ""} {
		_, err := competence.ParseMonth(bad)
		assert.ErrorIs(t, err, competence.ErrInvalidFormat, bad)
	}
}

func TestMonthRange(t *testing.T) {
	r := competence.MonthRange(date(2024, time.February, 1))
	assert.Equal(t, date(2024, time.February, 1), r.Start)
	assert.Equal(t, date(2024, time.February, 29), r.End)

	r = competence.MonthRange(date(2023, time.December, 1))
	assert.Equal(t, date(2023, time.December, 31), r.End)
}

func TestRange_Includes(t *testing.T) {
	jan := competence.MonthRange(date(2024, time.January, 1))
	feb := competence.MonthRange(date(2024, time.February, 1))
	dec := competence.MonthRange(date(2023, time.December, 1))

	admitted := date(2024, time.January, 10)
	assert.True(t, jan.Includes(admitted, nil))
	assert.True(t, feb.Includes(admitted, nil))
	assert.False(t, dec.Includes(admitted, nil))

	terminated := date(2024, time.January, 5)
	assert.True(t, jan.Includes(date(2020, time.March, 1), &terminated))
	assert.False(t, feb.Includes(date(2020, time.March, 1), &terminated))
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-10", "20240110", " 2024-01-10 "} {
		got, err := competence.ParseDate(in)
		require.NoError(t, err)
		assert.Equal(t, date(2024, time.January, 10), got)
	}

	for _, bad := range []string{"10/01/2024", "2024-1-10", "2024-02-30", ""} {
		_, err := competence.ParseDate(bad)
		assert.ErrorIs(t, err, competence.ErrInvalidDate, bad)
	}
}
