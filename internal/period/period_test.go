package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestNewValidates(t *testing.T) {
	_, err := New(2024, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = New(2024, 13, nil)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = New(0, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidYear)

	p, err := New(2024, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-10", p.String())
}

func TestPreviousRollsOverYear(t *testing.T) {
	assert.Equal(t, Period{Year: 2023, Month: 12}, Period{Year: 2024, Month: 1}.Previous())
	assert.Equal(t, Period{Year: 2024, Month: 9}, Period{Year: 2024, Month: 10}.Previous())
}

func TestContainsUsesLocation(t *testing.T) {
	loc := jakarta(t)
	p := Period{Year: 2024, Month: 11, Location: loc}

	// 2024-10-31 18:30 UTC is 2024-11-01 01:30 in Jakarta.
	assert.True(t, p.Contains(time.Date(2024, 10, 31, 18, 30, 0, 0, time.UTC)))
	assert.False(t, Period{Year: 2024, Month: 11}.Contains(time.Date(2024, 10, 31, 18, 30, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Time{}))
}

func TestStartEndAndLabel(t *testing.T) {
	p := Period{Year: 2024, Month: 12, Location: time.UTC}
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.End())
	assert.Equal(t, "Desember 2024", p.Label())
	assert.Equal(t, "Oktober", MonthName(time.October))
}

func TestOf(t *testing.T) {
	loc := jakarta(t)
	p := Of(time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, 1, p.Month)
}

func TestResolve(t *testing.T) {
	now := time.Date(2024, 10, 31, 20, 0, 0, 0, time.UTC)
	loc := jakarta(t)

	p, err := Resolve(0, 0, now, loc)
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, 11, p.Month)

	p, err = Resolve(2023, 2, now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2023-02", p.String())

	p, err = Resolve(0, 3, now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.String())

	_, err = Resolve(0, 13, now, loc)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = Resolve(2024, 0, now, loc)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
