package uuid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var v4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewProducesVersion4(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		id := New()
		require.Regexp(t, v4Pattern, id)
		require.False(t, IsEmpty(id))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00000000-0000-0000-0000-000000000000", Empty)
	require.True(t, IsEmpty(""))
	require.True(t, IsEmpty(Empty))
	require.False(t, IsEmpty("default"))
}
