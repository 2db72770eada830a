package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/organizer/model"
)

const (
	// modelConfidenceCap bounds what a model-only extraction may claim.
	modelConfidenceCap = 0.92
	// candidateSnippetLength is how much of a chunk is recorded as
	// evidence for a model candidate.
	candidateSnippetLength = 200
)

// ExtractCandidateEntities asks the generative model for entity candidates
// in every chunk and consolidates them into entity records keyed by exact
// name. Failures are per chunk: a chunk whose request or response parsing
// fails is logged and skipped, never fatal to the batch.
func ExtractCandidateEntities(ctx context.Context, candidates CandidateFunc, textChunks []string, docID string, logger *slog.Logger) []*model.Entity {
	entityMap := make(map[string]*model.Entity)
	var order []string

	for chunkIndex, chunk := range textChunks {
		parsed, err := candidates(ctx, chunk)
		if err != nil {
			logger.Warn("Model extraction failed for chunk",
				slog.Int("chunk_index", chunkIndex), slog.String("error", err.Error()))
			continue
		}

		for _, candidate := range parsed {
			name := strings.TrimSpace(candidate.Name)
			if len(name) < 2 {
				continue
			}

			snippet := chunk
			if len(snippet) > candidateSnippetLength {
				snippet = snippet[:candidateSnippetLength]
			}
			source := model.SourceSnippet{
				DocID:      docID,
				Snippet:    snippet,
				ChunkIndex: chunkIndex,
			}

			if existing, ok := entityMap[name]; ok {
				existing.AddSource(source)
				existing.Confidence = minFloat(modelConfidenceCap, existing.Confidence+0.02)
				continue
			}

			entityMap[name] = &model.Entity{
				ID:         uuid.New(),
				Name:       name,
				Type:       model.EntityType(candidate.Type),
				Confidence: minFloat(modelConfidenceCap, candidate.Confidence),
				Sources:    []model.SourceSnippet{source},
				Aliases:    []string{},
			}
			order = append(order, name)
		}
	}

	entities := make([]*model.Entity, 0, len(order))
	for _, name := range order {
		entities = append(entities, entityMap[name])
	}
	return entities
}
