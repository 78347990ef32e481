package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	want := Date(2012, 3, 9)

	for _, in := range []string{
		"2012-03-09",
		" 2012-03-09 ",
		"2012-03-09T00:00:00Z",
		"2012-03-09T23:30:00+05:00",
		"2012-03-09 10:11:12",
		"03/09/2012",
	} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2012-13-40"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestYearsBetween(t *testing.T) {
	birth := Date(2010, 6, 15)

	assert.Equal(t, 16, YearsBetween(birth, Date(2026, 6, 15)))
	assert.Equal(t, 15, YearsBetween(birth, Date(2026, 6, 14)))
	assert.Equal(t, 15, YearsBetween(birth, Date(2026, 5, 30)))
	assert.Equal(t, 16, YearsBetween(birth, Date(2026, 7, 1)))
	assert.Equal(t, 0, YearsBetween(birth, birth))
}

func TestYearsBetween_LeapDay(t *testing.T) {
	birth := Date(2008, 2, 29)

	assert.Equal(t, 17, YearsBetween(birth, Date(2026, 2, 28)))
	assert.Equal(t, 18, YearsBetween(birth, Date(2026, 3, 1)))
}
