package pipeline

import (
	"context"
	"log/slog"

	"github.com/siherrmann/organizer/model"
)

// TagFunc is the rule-based tagger collaborator. It returns labeled spans
// for one text chunk and is deterministic for identical input.
type TagFunc func(text string) ([]model.TaggedSpan, error)

// CandidateFunc asks the generative model for entity candidates in one
// text chunk.
type CandidateFunc func(ctx context.Context, text string) ([]model.EntityCandidate, error)

// EmbedBatchFunc generates embeddings for a batch of texts, one result per
// input in order. A nil entry represents a per-item failure, not a
// whole-batch failure.
type EmbedBatchFunc func(texts []string) ([][]float32, error)

// ClassifyFunc classifies the relationship between two entities given
// example snippets. Types may be empty when unknown.
type ClassifyFunc func(ctx context.Context, source, target string, examples []string, sourceType, targetType model.EntityType) (model.Classification, error)

// Pipeline combines the collaborators for knowledge-graph consolidation.
// Tagger is required; all other collaborators are optional and their
// absence puts the corresponding stage into degraded mode.
type Pipeline struct {
	Tagger     TagFunc
	Candidates CandidateFunc  // Optional
	Embedder   EmbedBatchFunc // Optional
	Classifier ClassifyFunc   // Optional
	Config     model.ExtractConfig
	log        *slog.Logger
}

// NewPipeline creates a new consolidation pipeline with the given tagger.
func NewPipeline(tagger TagFunc, config model.ExtractConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Tagger: tagger,
		Config: config,
		log:    logger,
	}
}

// SetCandidates sets the generative-model entity candidate collaborator.
func (p *Pipeline) SetCandidates(candidates CandidateFunc) {
	p.Candidates = candidates
}

// SetEmbedder sets the embedding batcher collaborator.
func (p *Pipeline) SetEmbedder(embedder EmbedBatchFunc) {
	p.Embedder = embedder
}

// SetClassifier sets the relationship classification collaborator.
func (p *Pipeline) SetClassifier(classifier ClassifyFunc) {
	p.Classifier = classifier
}
