package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedderDeterministic(t *testing.T) {
	e := NewStaticEmbedder(64)

	first, err := e.Embed(context.Background(), []string{"alpha beta gamma"})
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), []string{"alpha beta gamma"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first[0], 64)
}

func TestStaticEmbedderNormalized(t *testing.T) {
	e := NewStaticEmbedder(0)
	assert.Equal(t, DefaultStaticDimensions, e.Dimensions())

	vecs, err := e.Embed(context.Background(), []string{"several distinct tokens here"})
	require.NoError(t, err)

	var sumSq float64
	for _, v := range vecs[0] {
		sumSq += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sumSq, 1e-6)
}

func TestStaticEmbedderSimilarTextsCloser(t *testing.T) {
	e := NewStaticEmbedder(128)

	vecs, err := e.Embed(context.Background(), []string{
		"widget binding data source",
		"widget binding data grid",
		"unrelated orchestration pipeline",
	})
	require.NoError(t, err)

	dot := func(a, b []float32) float64 {
		var s float64
		for i := range a {
			s += float64(a[i]) * float64(b[i])
		}
		return s
	}
	assert.Greater(t, dot(vecs[0], vecs[1]), dot(vecs[0], vecs[2]))
}

func TestStaticEmbedderEmptyText(t *testing.T) {
	e := NewStaticEmbedder(32)

	vecs, err := e.Embed(context.Background(), []string{""})
	require.NoError(t, err)
	for _, v := range vecs[0] {
		assert.True(t, math.Abs(float64(v)) < 1e-9)
	}
}
