package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/siherrmann/organizer/helper"
	"github.com/siherrmann/organizer/model"
)

// Extract runs the full consolidation pipeline over the text chunks of one
// document: tagging, model candidates, merge, embeddings, deduplication,
// co-occurrence relationship building and classification. Stages with
// missing optional collaborators run in degraded mode. A hard failure in
// any stage fails the whole request, partial results are never returned.
func (p *Pipeline) Extract(ctx context.Context, textChunks []string, docID string) (*model.ExtractResult, error) {
	if p.Tagger == nil {
		return nil, helper.NewError("extract graph", fmt.Errorf("tagger not set"))
	}

	// Stage 1: tagger extraction
	tagged, err := ExtractTaggedEntities(p.Tagger, textChunks, docID)
	if err != nil {
		return nil, helper.NewError("extract tagged entities", err)
	}

	// Stage 2: model candidates and merge
	entities := tagged
	if p.Candidates != nil {
		candidates := ExtractCandidateEntities(ctx, p.Candidates, textChunks, docID, p.log)
		entities = MergeEntities(tagged, candidates)
		p.log.Info("Merged entity candidates",
			slog.Int("tagged", len(tagged)),
			slog.Int("candidates", len(candidates)),
			slog.Int("merged", len(entities)))
	} else {
		p.log.Info("Model candidates unavailable, using tagger-only extraction")
	}

	// Stage 3: embeddings for entity names
	embeddings := make([][]float32, len(entities))
	if p.Embedder != nil {
		names := make([]string, len(entities))
		for i, entity := range entities {
			names[i] = entity.Name
		}
		vectors, err := p.Embedder(names)
		if err != nil || len(vectors) != len(names) {
			p.log.Warn("Embedding generation failed, deduplicating without embeddings",
				slog.Any("error", err))
		} else {
			embeddings = validateEmbeddings(vectors, p.Config.EmbeddingDimensions)
		}
	}

	// Stage 4: deduplication
	deduplicated, err := Deduplicate(entities, embeddings)
	if err != nil {
		return nil, helper.NewError("deduplicate entities", err)
	}
	p.log.Info("Deduplicated entities",
		slog.Int("before", len(entities)),
		slog.Int("after", len(deduplicated)))

	// Stage 5: co-occurrence relationships
	relationships := BuildRelationships(textChunks, deduplicated, p.Config.MinWeight, p.Config.MaxExamples)
	p.log.Info("Built co-occurrence relationships", slog.Int("count", len(relationships)))

	// Stage 6: classify the strongest relationships, bounded by the
	// external-call cap; the remainder passes through unclassified
	sort.SliceStable(relationships, func(i, j int) bool {
		return relationships[i].Weight > relationships[j].Weight
	})

	limit := p.Config.ClassifyLimit
	if limit > len(relationships) {
		limit = len(relationships)
	}
	top := relationships[:limit]
	remainder := relationships[limit:]

	if p.Classifier != nil {
		entityTypes := make(map[string]model.EntityType, len(deduplicated))
		for _, entity := range deduplicated {
			entityTypes[entity.Name] = entity.Type
		}
		top = ClassifyRelationships(ctx, top, p.Classifier, entityTypes, p.Config, p.log)
		p.log.Info("Classified relationships",
			slog.Int("classified", len(top)),
			slog.Int("unclassified", len(remainder)))
	} else {
		p.log.Info("Classifier unavailable, relationships keep default type")
	}

	return &model.ExtractResult{
		Entities:      deduplicated,
		Relationships: append(top, remainder...),
	}, nil
}
