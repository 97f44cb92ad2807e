package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedIsDeterministicAndNormalized(t *testing.T) {
	a := Embed("Greek Yogurt, plain")
	b := Embed("greek   yogurt plain")
	assert.Equal(t, a.Slice(), b.Slice())
	assert.Len(t, a.Slice(), Dimensions)

	var norm float64
	for _, v := range a.Slice() {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbedRanksSimilarNamesCloser(t *testing.T) {
	query := Embed("chicken breast")
	near := Embed("Chicken breast, grilled")
	far := Embed("chocolate ice cream")
	assert.Less(t, Distance(query, near), Distance(query, far))
}

func TestEmbedEmpty(t *testing.T) {
	v := Embed("  ,, ")
	for _, x := range v.Slice() {
		assert.Zero(t, x)
	}
}
