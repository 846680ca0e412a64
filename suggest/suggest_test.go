package suggest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankPrefersCloserNames(t *testing.T) {
	s := New([]string{"open", "close", "quit", "maps"})
	top := s.Rank("opne", 2)
	require.NotEmpty(t, top)
	require.Equal(t, "open", top[0])
}

func TestRankOnNilSuggesterReturnsNil(t *testing.T) {
	var s *Suggester
	require.Nil(t, s.Rank("anything", 3))
}

func TestRankClampsToAvailableNames(t *testing.T) {
	s := New([]string{"open"})
	require.Len(t, s.Rank("open", 5), 1)
}
