package pipeline

import (
	"sort"

	"github.com/siherrmann/organizer/model"
)

// cooccurrenceBaseConfidence is the fixed confidence assigned to a
// relationship derived purely from co-occurrence, before classification.
const cooccurrenceBaseConfidence = 0.7

// OccurrenceIndex maps an entity name to the set of chunk indices in which
// that entity has at least one evidence source. It is rebuilt per request
// and never persisted.
type OccurrenceIndex map[string]map[int]struct{}

// BuildOccurrenceIndex derives the occurrence index from entity evidence.
func BuildOccurrenceIndex(entities []*model.Entity) OccurrenceIndex {
	occurrences := make(OccurrenceIndex, len(entities))
	for _, entity := range entities {
		chunks, ok := occurrences[entity.Name]
		if !ok {
			chunks = make(map[int]struct{})
			occurrences[entity.Name] = chunks
		}
		for _, source := range entity.Sources {
			chunks[source.ChunkIndex] = struct{}{}
		}
	}
	return occurrences
}

// CooccurrenceWeight computes the relationship weight for two occurrence
// sets: |intersection| / min(|set1|, |set2|). Dividing by the smaller
// footprint is intentional, a single-mention entity can register a
// maximal-strength tie to a large entity if they ever share a chunk.
// Empty sets and empty intersections yield 0.
func CooccurrenceWeight(chunks1, chunks2 map[int]struct{}) float64 {
	if len(chunks1) == 0 || len(chunks2) == 0 {
		return 0.0
	}

	shared := 0
	for idx := range chunks1 {
		if _, ok := chunks2[idx]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0.0
	}

	smaller := len(chunks1)
	if len(chunks2) < smaller {
		smaller = len(chunks2)
	}

	weight := float64(shared) / float64(smaller)
	if weight > 1.0 {
		return 1.0
	}
	return weight
}

// BuildRelationships derives a weighted undirected relationship for every
// entity pair whose co-occurrence weight reaches minWeight. The (source,
// target) ordering follows entity list order at creation and stays stable
// afterwards. Up to maxExamples shared chunks are attached as examples,
// truncated to 200 characters.
func BuildRelationships(textChunks []string, entities []*model.Entity, minWeight float64, maxExamples int) []*model.Relationship {
	if len(entities) == 0 {
		return []*model.Relationship{}
	}

	occurrences := BuildOccurrenceIndex(entities)

	// Pair iteration follows entity order so source/target assignment is
	// reproducible across runs
	names := make([]string, 0, len(entities))
	seen := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		if _, ok := seen[entity.Name]; ok {
			continue
		}
		seen[entity.Name] = struct{}{}
		names = append(names, entity.Name)
	}

	relationships := []*model.Relationship{}

	for i := 0; i < len(names); i++ {
		chunks1 := occurrences[names[i]]

		for j := i + 1; j < len(names); j++ {
			chunks2 := occurrences[names[j]]

			weight := CooccurrenceWeight(chunks1, chunks2)
			if weight < minWeight {
				continue
			}

			relationships = append(relationships, &model.Relationship{
				SourceEntity: names[i],
				TargetEntity: names[j],
				Category:     model.RelationshipCategoryCooccurrence,
				RelationType: model.DefaultRelationType,
				Weight:       weight,
				Confidence:   cooccurrenceBaseConfidence,
				Examples:     sharedExamples(textChunks, chunks1, chunks2, maxExamples),
			})
		}
	}

	return relationships
}

// sharedExamples collects up to max example chunks from the shared indices
// of two occurrence sets, truncated to 200 characters with an ellipsis.
func sharedExamples(textChunks []string, chunks1, chunks2 map[int]struct{}, max int) []string {
	var shared []int
	for idx := range chunks1 {
		if _, ok := chunks2[idx]; ok {
			shared = append(shared, idx)
		}
	}
	sort.Ints(shared)

	examples := []string{}
	for _, idx := range shared {
		if len(examples) >= max {
			break
		}
		if idx < 0 || idx >= len(textChunks) {
			continue
		}
		snippet := textChunks[idx]
		if len(snippet) > 200 {
			snippet = snippet[:197] + "..."
		}
		examples = append(examples, snippet)
	}
	return examples
}
