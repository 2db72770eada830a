package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/siherrmann/organizer/core/pipeline"
	"github.com/siherrmann/organizer/helper"
	"github.com/siherrmann/organizer/llm"
	"github.com/siherrmann/organizer/model"
)

// Organizer consolidates raw entity mentions and co-occurrence signals
// from text chunks into a deduplicated knowledge-graph fragment. One
// Organizer can serve concurrent requests, the collaborators it holds are
// read-only after construction.
type Organizer struct {
	Pipeline *pipeline.Pipeline
	Model    *llm.Client // Optional generative-model collaborator
	config   model.ExtractConfig
	// Logging
	log *slog.Logger
}

// NewOrganizer creates a new Organizer with the given configuration.
func NewOrganizer(config model.ExtractConfig) *Organizer {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &Organizer{
		config: config,
		log:    logger,
	}
}

// SetPipeline replaces the consolidation pipeline.
func (o *Organizer) SetPipeline(p *pipeline.Pipeline) {
	o.Pipeline = p
}

// UseDefaultPipeline sets up the default collaborators: the distilbert-NER
// tagger, the all-MiniLM-L6-v2 embedding batcher (384 dimensions) and, if
// an API key is available, the Anthropic model client for entity
// candidates and relationship classification. Without an API key the
// pipeline runs in the supported tagger-only degraded mode.
func (o *Organizer) UseDefaultPipeline() error {
	config := o.config

	tagger, err := pipeline.DefaultTagger()
	if err != nil {
		return helper.NewError("create default tagger", err)
	}

	embedder, err := pipeline.DefaultEmbedder(config.EmbeddingBatchSize)
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	// all-MiniLM-L6-v2 produces 384-dimensional vectors
	config.EmbeddingDimensions = 384

	p := pipeline.NewPipeline(tagger, config, o.log)
	p.SetEmbedder(embedder)

	client, err := llm.NewClient("")
	if err != nil {
		o.log.Warn("Generative model unavailable, running tagger-only",
			slog.String("error", err.Error()))
	} else {
		o.Model = client
		p.SetCandidates(client.ExtractEntities)
		p.SetClassifier(func(ctx context.Context, source, target string, examples []string, sourceType, targetType model.EntityType) (model.Classification, error) {
			return client.ClassifyRelationship(ctx, source, target, examples, sourceType, targetType), nil
		})
	}

	o.Pipeline = p
	return nil
}

// ExtractGraph extracts a knowledge-graph fragment (deduplicated entities
// and typed relationships) from the text chunks of one document. The call
// is synchronous and deterministic modulo the external collaborators.
func (o *Organizer) ExtractGraph(ctx context.Context, textChunks []string, docID string) (*model.ExtractResult, error) {
	if o.Pipeline == nil || o.Pipeline.Tagger == nil {
		return nil, helper.NewError("extract graph", fmt.Errorf("pipeline not set, use UseDefaultPipeline() or SetPipeline() first"))
	}

	start := time.Now()
	o.log.Info("Extracting graph",
		slog.String("doc_id", docID),
		slog.Int("num_chunks", len(textChunks)))

	result, err := o.Pipeline.Extract(ctx, textChunks, docID)
	if err != nil {
		return nil, helper.NewError("extract graph", err)
	}

	o.log.Info("Extraction complete",
		slog.String("doc_id", docID),
		slog.Int("entities", len(result.Entities)),
		slog.Int("relationships", len(result.Relationships)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}
