package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("Lowercase and strip punctuation", func(t *testing.T) {
		assert.Equal(t, "ai", Normalize("A.I."))
		assert.Equal(t, "machine learning", Normalize("Machine Learning!"))
	})

	t.Run("Trim surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "openai", Normalize("  OpenAI  "))
	})

	t.Run("Keep digits", func(t *testing.T) {
		assert.Equal(t, "gpt4", Normalize("GPT-4"))
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("..."))
	})
}

func TestStringSimilarity(t *testing.T) {
	t.Run("Identical after normalization", func(t *testing.T) {
		assert.Equal(t, 1.0, StringSimilarity("ai", "AI"))
		assert.Equal(t, 1.0, StringSimilarity("AI", "A.I."))
	})

	t.Run("Partial overlap", func(t *testing.T) {
		// LCS("abc", "abd") = "ab", ratio = 2*2/6
		assert.InDelta(t, 0.6667, StringSimilarity("abc", "abd"), 0.001)
	})

	t.Run("No overlap", func(t *testing.T) {
		assert.Equal(t, 0.0, StringSimilarity("abc", "xyz"))
	})

	t.Run("Symmetric", func(t *testing.T) {
		a, b := "Neural Networks", "neural nets"
		assert.Equal(t, StringSimilarity(a, b), StringSimilarity(b, a))
	})

	t.Run("Both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, StringSimilarity("", ""))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("Identical nonzero vectors", func(t *testing.T) {
		v := []float32{1, 2, 3}
		sim, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("Orthogonal unit vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})

	t.Run("Opposite vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-9)
	})

	t.Run("Dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("Empty vectors", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{}, []float32{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyVector)
	})

	t.Run("Zero magnitude returns zero without error", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 1})
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})
}

func TestIsAbbreviation(t *testing.T) {
	t.Run("Initials match", func(t *testing.T) {
		assert.True(t, IsAbbreviation("AI", "Artificial Intelligence"))
		assert.True(t, IsAbbreviation("ML", "Machine Learning"))
		assert.True(t, IsAbbreviation("GPT", "Generative Pre-trained Transformer"))
	})

	t.Run("Substring match", func(t *testing.T) {
		assert.True(t, IsAbbreviation("net", "Internet"))
	})

	t.Run("Too long to be an abbreviation", func(t *testing.T) {
		assert.False(t, IsAbbreviation("Python", "Python Programming"))
	})

	t.Run("No match", func(t *testing.T) {
		assert.False(t, IsAbbreviation("XY", "Artificial Intelligence"))
	})

	t.Run("Not symmetric", func(t *testing.T) {
		assert.True(t, IsAbbreviation("AI", "Artificial Intelligence"))
		assert.False(t, IsAbbreviation("Artificial Intelligence", "AI"))
	})
}
