// Package search builds the small deterministic name embeddings used to rank
// food items by similarity with pgvector.
package search

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// Dimensions must match the vector(N) column of food_items.embedding.
const Dimensions = 64

// Embed hashes the character trigrams of text into a unit vector. Texts that
// share many trigrams ("greek yogurt" / "yoghurt greek") end up close.
func Embed(text string) pgvector.Vector {
	vec := make([]float32, Dimensions)
	for _, word := range normalize(text) {
		padded := " " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			h := fnv.New32a()
			h.Write([]byte(string(runes[i : i+3])))
			vec[h.Sum32()%Dimensions]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return pgvector.NewVector(vec)
}

func normalize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Distance is the euclidean distance between two embeddings, the same metric
// as pgvector's <-> operator.
func Distance(a, b pgvector.Vector) float64 {
	av, bv := a.Slice(), b.Slice()
	if len(av) != len(bv) {
		return math.Inf(1)
	}
	var sum float64
	for i := range av {
		d := float64(av[i] - bv[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
