package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

func TestBook_SetYear(t *testing.T) {
	withFixedNow(t, time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		year    string
		wantErr bool
	}{
		{name: "current year", year: "2020", wantErr: false},
		{name: "past year", year: "1999", wantErr: false},
		{name: "first valid year", year: "1", wantErr: false},
		{name: "future year", year: "2021", wantErr: true},
		{name: "zero", year: "0", wantErr: true},
		{name: "negative", year: "-5", wantErr: true},
		{name: "non-numeric", year: "MCMXCIX", wantErr: true},
		{name: "empty", year: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Book
			err := b.SetYear(tt.year)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.Empty(t, b.Year, "invalid year must not be assigned")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, b.Year)
		})
	}
}

func TestBook_SetYear_DependsOnCurrentDate(t *testing.T) {
	var b Book

	// "2020" is a future year while the clock reads 2019
	withFixedNow(t, time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, b.SetYear("2020"), ErrInvalidArgument)

	// the same input becomes valid once that year arrives
	nowFunc = func() time.Time { return time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, b.SetYear("2020"))
	assert.Equal(t, "2020", b.Year)
}

func TestBook_SetPages(t *testing.T) {
	var b Book

	assert.ErrorIs(t, b.SetPages(0), ErrInvalidArgument)
	assert.ErrorIs(t, b.SetPages(-10), ErrInvalidArgument)
	assert.Zero(t, b.Pages)

	require.NoError(t, b.SetPages(1))
	assert.Equal(t, 1, b.Pages)
}

func TestBook_RequiredStringSetters(t *testing.T) {
	var b Book

	setters := map[string]func(string) error{
		"author":    b.SetAuthor,
		"image":     b.SetImage,
		"title":     b.SetTitle,
		"subtitle":  b.SetSubtitle,
		"publisher": b.SetPublisher,
		"isbn":      b.SetISBN,
	}

	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, set(""), ErrInvalidArgument)
			assert.NoError(t, set("value"))
		})
	}
}

func TestBook_SetGenre_AllowsEmpty(t *testing.T) {
	var b Book
	b.SetGenre("")
	assert.Empty(t, b.Genre)
	b.SetGenre("Fiction")
	assert.Equal(t, "Fiction", b.Genre)
}
