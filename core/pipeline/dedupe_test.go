package pipeline

import (
	"testing"

	"github.com/siherrmann/organizer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldMerge(t *testing.T) {
	t.Run("Different types never merge", func(t *testing.T) {
		apple1 := testEntity("Apple", model.EntityTypeOrganization, 0.9)
		apple2 := testEntity("Apple", model.EntityTypeConcept, 0.9)
		// Identical names and identical embeddings, type gate still wins
		emb := []float32{1, 0, 0}
		assert.False(t, ShouldMerge(apple1, apple2, emb, emb))
	})

	t.Run("High string similarity merges", func(t *testing.T) {
		e1 := testEntity("Marie Curie", model.EntityTypePerson, 0.9)
		e2 := testEntity("marie curie", model.EntityTypePerson, 0.8)
		assert.True(t, ShouldMerge(e1, e2, nil, nil))
	})

	t.Run("High cosine similarity merges", func(t *testing.T) {
		e1 := testEntity("automobile", model.EntityTypeConcept, 0.9)
		e2 := testEntity("car", model.EntityTypeConcept, 0.8)
		emb1 := []float32{1, 0.1, 0}
		emb2 := []float32{1, 0.11, 0}
		assert.True(t, ShouldMerge(e1, e2, emb1, emb2))
	})

	t.Run("Missing embedding disables the cosine signal", func(t *testing.T) {
		e1 := testEntity("automobile", model.EntityTypeConcept, 0.9)
		e2 := testEntity("car", model.EntityTypeConcept, 0.8)
		assert.False(t, ShouldMerge(e1, e2, []float32{1, 0, 0}, nil))
	})

	t.Run("Abbreviation merges in either direction", func(t *testing.T) {
		ai := testEntity("AI", model.EntityTypeConcept, 0.9)
		full := testEntity("Artificial Intelligence", model.EntityTypeConcept, 0.8)
		assert.True(t, ShouldMerge(ai, full, nil, nil))
		assert.True(t, ShouldMerge(full, ai, nil, nil))
	})

	t.Run("Dissimilar entities stay apart", func(t *testing.T) {
		e1 := testEntity("Berlin", model.EntityTypeLocation, 0.9)
		e2 := testEntity("Tokyo", model.EntityTypeLocation, 0.9)
		assert.False(t, ShouldMerge(e1, e2, nil, nil))
	})
}

func TestDeduplicate(t *testing.T) {
	t.Run("Merges near-identical names into one canonical", func(t *testing.T) {
		entities := []*model.Entity{
			testEntity("AI", model.EntityTypeConcept, 0.8,
				model.SourceSnippet{DocID: "doc-1", Snippet: "AI is everywhere", ChunkIndex: 0}),
			testEntity("A.I.", model.EntityTypeConcept, 0.9,
				model.SourceSnippet{DocID: "doc-1", Snippet: "the rise of A.I.", ChunkIndex: 1}),
		}

		deduplicated, err := Deduplicate(entities, make([][]float32, 2))
		require.NoError(t, err)
		require.Len(t, deduplicated, 1)

		canonical := deduplicated[0]
		assert.Equal(t, "AI", canonical.Name)
		assert.InDelta(t, 0.85, canonical.Confidence, 1e-9)
		assert.Equal(t, []string{"A.I."}, canonical.Aliases)
		assert.Len(t, canonical.Sources, 2)
	})

	t.Run("Type gate survives deduplication", func(t *testing.T) {
		entities := []*model.Entity{
			testEntity("Apple", model.EntityTypeOrganization, 0.9),
			testEntity("Apple", model.EntityTypeConcept, 0.8),
		}

		deduplicated, err := Deduplicate(entities, make([][]float32, 2))
		require.NoError(t, err)
		assert.Len(t, deduplicated, 2)
	})

	t.Run("First seen wins as canonical and input order is kept", func(t *testing.T) {
		entities := []*model.Entity{
			testEntity("Berlin", model.EntityTypeLocation, 0.9),
			testEntity("Artificial Intelligence", model.EntityTypeConcept, 0.7),
			testEntity("AI", model.EntityTypeConcept, 0.9),
		}

		deduplicated, err := Deduplicate(entities, make([][]float32, 3))
		require.NoError(t, err)
		require.Len(t, deduplicated, 2)
		assert.Equal(t, "Berlin", deduplicated[0].Name)
		assert.Equal(t, "Artificial Intelligence", deduplicated[1].Name)
		assert.Equal(t, []string{"AI"}, deduplicated[1].Aliases)
	})

	t.Run("Merged aliases carry over to the canonical", func(t *testing.T) {
		e1 := testEntity("Artificial Intelligence", model.EntityTypeConcept, 0.8)
		e2 := testEntity("AI", model.EntityTypeConcept, 0.9)
		e2.Aliases = []string{"A.I."}

		deduplicated, err := Deduplicate([]*model.Entity{e1, e2}, make([][]float32, 2))
		require.NoError(t, err)
		require.Len(t, deduplicated, 1)
		assert.ElementsMatch(t, []string{"AI", "A.I."}, deduplicated[0].Aliases)
	})

	t.Run("Length mismatch is rejected", func(t *testing.T) {
		entities := []*model.Entity{testEntity("AI", model.EntityTypeConcept, 0.9)}
		_, err := Deduplicate(entities, make([][]float32, 2))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("Empty input yields empty output", func(t *testing.T) {
		deduplicated, err := Deduplicate([]*model.Entity{}, [][]float32{})
		require.NoError(t, err)
		assert.Empty(t, deduplicated)
	})

	t.Run("Originals are not mutated", func(t *testing.T) {
		e1 := testEntity("AI", model.EntityTypeConcept, 0.8)
		e2 := testEntity("A.I.", model.EntityTypeConcept, 0.9)

		_, err := Deduplicate([]*model.Entity{e1, e2}, make([][]float32, 2))
		require.NoError(t, err)
		assert.InDelta(t, 0.8, e1.Confidence, 1e-9)
		assert.Empty(t, e1.Aliases)
	})
}
