package pipeline

import (
	"errors"
	"fmt"

	"github.com/siherrmann/organizer/core/similarity"
	"github.com/siherrmann/organizer/model"
)

const (
	stringSimilarityThreshold = 0.85
	cosineSimilarityThreshold = 0.90
)

// ErrLengthMismatch is returned when the entity list and the embedding
// list differ in length.
var ErrLengthMismatch = errors.New("entities and embeddings must have same length")

// ShouldMerge reports whether two entities refer to the same real-world
// entity. Entities of different types never merge, regardless of any
// similarity signal. Same-type entities merge when at least one signal
// holds: string similarity, embedding cosine similarity (only if both
// embeddings are present) or abbreviation detection in either direction.
func ShouldMerge(entity1, entity2 *model.Entity, emb1, emb2 []float32) bool {
	if entity1.Type != entity2.Type {
		return false
	}

	if similarity.StringSimilarity(entity1.Name, entity2.Name) >= stringSimilarityThreshold {
		return true
	}

	if emb1 != nil && emb2 != nil {
		cos, err := similarity.CosineSimilarity(emb1, emb2)
		if err == nil && cos >= cosineSimilarityThreshold {
			return true
		}
	}

	if similarity.IsAbbreviation(entity1.Name, entity2.Name) || similarity.IsAbbreviation(entity2.Name, entity1.Name) {
		return true
	}

	return false
}

// Deduplicate consolidates entities into canonical records using
// multi-signal matching. The embeddings list is parallel to the entity
// list; a nil entry means no embedding is available for that entity.
//
// Within each type partition every unordered pair is compared once. An
// entity already merged away is skipped as a comparison subject, so a
// merge target is always an original canonical and chains never form.
// The earlier index wins as canonical. Merged names become aliases,
// evidence is unioned deduplicated by snippet text and the canonical
// confidence is the arithmetic mean over all merged originals.
//
// Pairwise comparison is intentionally all-pairs per type bucket. Entity
// counts per request are tens, not thousands, and exact merge semantics
// stay auditable. Scaling this up would make approximate nearest-neighbor
// indexing the first optimization target.
func Deduplicate(entities []*model.Entity, embeddings [][]float32) ([]*model.Entity, error) {
	if len(entities) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(entities), len(embeddings))
	}
	if len(entities) == 0 {
		return []*model.Entity{}, nil
	}

	// Group entity indices by type, cross-type merges are forbidden
	typeGroups := make(map[model.EntityType][]int)
	for i, entity := range entities {
		typeGroups[entity.Type] = append(typeGroups[entity.Type], i)
	}

	// Merged-away index -> canonical index, local to this invocation
	mergeMap := make(map[int]int)

	for _, indices := range typeGroups {
		for i := 0; i < len(indices); i++ {
			idxI := indices[i]
			if _, merged := mergeMap[idxI]; merged {
				continue
			}

			for j := i + 1; j < len(indices); j++ {
				idxJ := indices[j]
				if _, merged := mergeMap[idxJ]; merged {
					continue
				}

				if ShouldMerge(entities[idxI], entities[idxJ], embeddings[idxI], embeddings[idxJ]) {
					// Merge the later index into the earlier, first seen wins
					mergeMap[idxJ] = idxI
				}
			}
		}
	}

	deduplicated := make([]*model.Entity, 0, len(entities)-len(mergeMap))

	for i, entity := range entities {
		if _, merged := mergeMap[i]; merged {
			continue
		}

		canonical := &model.Entity{
			ID:         entity.ID,
			Name:       entity.Name,
			Type:       entity.Type,
			Confidence: entity.Confidence,
			Sources:    append([]model.SourceSnippet{}, entity.Sources...),
			Aliases:    append([]string{}, entity.Aliases...),
		}

		confidenceSum := entity.Confidence
		confidenceCount := 1

		for j := 0; j < len(entities); j++ {
			canonicalIdx, merged := mergeMap[j]
			if !merged || canonicalIdx != i {
				continue
			}
			mergedEntity := entities[j]

			canonical.AddAlias(mergedEntity.Name)
			for _, source := range mergedEntity.Sources {
				canonical.AddSource(source)
			}
			for _, alias := range mergedEntity.Aliases {
				canonical.AddAlias(alias)
			}

			confidenceSum += mergedEntity.Confidence
			confidenceCount++
		}

		canonical.Confidence = confidenceSum / float64(confidenceCount)
		deduplicated = append(deduplicated, canonical)
	}

	return deduplicated, nil
}
