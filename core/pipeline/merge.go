package pipeline

import (
	"github.com/siherrmann/organizer/model"
)

const (
	// mergeConfidenceBoost rewards an entity found by both the tagger and
	// the model.
	mergeConfidenceBoost = 0.05
	// mergeConfidenceCap bounds the boosted confidence.
	mergeConfidenceCap = 0.98
	// candidateConfidenceFloor is the minimum confidence for a model-only
	// entity to survive the merge. Anything below is discarded as noise.
	candidateConfidenceFloor = 0.55
)

// MergeEntities merges the tagger entity list with the model candidate
// list, keyed by exact name. A name found by both keeps the tagger entry
// with boosted confidence and the model's evidence appended. A model-only
// name is kept only above the confidence floor. Tagger entity order is
// preserved, surviving model entities follow in their own order.
func MergeEntities(tagged []*model.Entity, candidates []*model.Entity) []*model.Entity {
	merged := make([]*model.Entity, 0, len(tagged)+len(candidates))
	byName := make(map[string]*model.Entity, len(tagged))

	for _, entity := range tagged {
		merged = append(merged, entity)
		byName[entity.Name] = entity
	}

	for _, candidate := range candidates {
		if existing, ok := byName[candidate.Name]; ok {
			// Found by both, boost confidence and merge evidence
			existing.Confidence = minFloat(mergeConfidenceCap, existing.Confidence+mergeConfidenceBoost)
			for _, source := range candidate.Sources {
				existing.AddSource(source)
			}
			continue
		}

		if candidate.Confidence >= candidateConfidenceFloor {
			merged = append(merged, candidate)
			byName[candidate.Name] = candidate
		}
	}

	return merged
}
