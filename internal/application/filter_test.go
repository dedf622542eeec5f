package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"material-counter/internal/domain/entity"
)

func TestNewScoreFilter(t *testing.T) {
	in := []entity.Detection{
		{Class: "a", Confidence: 0.2},
		{Class: "b", Confidence: 0.5},
		{Class: "c", Confidence: 0.9},
	}
	out := NewScoreFilter(0.5)(in)
	require.Len(t, out, 2)
	require.Equal(t, "b", out[0].Class)
	require.Equal(t, "c", out[1].Class)
}
