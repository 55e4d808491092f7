package idx_test

import (
	"testing"
	"time"

	"github.com/hearthside/homesite/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	// Parse a newly generated string
	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too short", "01HQ7T3Z1M"},
		{"invalid chars", "0!HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.Parse(tt.in)
			require.ErrorIs(t, err, idx.ErrInvalid)
		})
	}
}

func TestTimeExtraction(t *testing.T) {
	before := time.Now().UTC()
	id := idx.New()
	after := time.Now().UTC()

	// ULID time resolution is milliseconds, so pad the window a little.
	require.WithinRange(t, id.Time(), before.Add(-time.Millisecond), after.Add(time.Millisecond))
}

func TestZero(t *testing.T) {
	require.True(t, idx.Zero.IsZero())
	require.True(t, idx.Zero.Time().IsZero())
}
