package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/organizer/helper"
	"github.com/siherrmann/organizer/model"
)

// labelMap maps tagger labels onto the closed entity type set. Unmapped
// labels are dropped.
var labelMap = map[string]model.EntityType{
	"PER":         model.EntityTypePerson,
	"PERSON":      model.EntityTypePerson,
	"ORG":         model.EntityTypeOrganization,
	"GPE":         model.EntityTypeLocation,
	"LOC":         model.EntityTypeLocation,
	"LOCATION":    model.EntityTypeLocation,
	"DATE":        model.EntityTypeDate,
	"WORK_OF_ART": model.EntityTypePaper,
	"PRODUCT":     model.EntityTypeConcept,
	"EVENT":       model.EntityTypeConcept,
	"LAW":         model.EntityTypeConcept,
	"LANGUAGE":    model.EntityTypeConcept,
	"MISC":        model.EntityTypeConcept,
}

const (
	// taggerBaseConfidence is the starting confidence for a tagged entity,
	// boosted for longer names as they are usually more specific.
	taggerBaseConfidence = 0.6
	// snippetWindow is the number of characters kept around a span as
	// evidence context.
	snippetWindow = 50
)

// DefaultTagger creates a tagger using the distilbert-NER token
// classification model. Detects PER, ORG, LOC and MISC spans.
func DefaultTagger() (TagFunc, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "tagger-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create tagger pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create tagger pipeline: %w", err)
	}

	return func(text string) ([]model.TaggedSpan, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run tagger: %w", err)
		}

		if len(result.Entities) == 0 {
			return nil, nil
		}

		var spans []model.TaggedSpan
		for _, entity := range result.Entities[0] {
			spans = append(spans, model.TaggedSpan{
				Text:  strings.TrimSpace(entity.Word),
				Label: normalizeLabel(entity.Entity),
				Score: float64(entity.Score),
				Start: int(entity.Start),
				End:   int(entity.End),
			})
		}

		return spans, nil
	}, nil
}

// normalizeLabel removes BIO tagging prefixes (B- for beginning, I- for
// inside) from NER labels.
func normalizeLabel(label string) string {
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")
	return label
}

// ExtractTaggedEntities runs the tagger over every chunk and consolidates
// the spans into entity records keyed by exact name. Repeated mentions of
// the same name boost confidence and append evidence. Spans shorter than
// two characters and spans with unmapped labels are dropped. Entity order
// follows first appearance.
func ExtractTaggedEntities(tagger TagFunc, textChunks []string, docID string) ([]*model.Entity, error) {
	entityMap := make(map[string]*model.Entity)
	var order []string

	for chunkIndex, chunk := range textChunks {
		spans, err := tagger(chunk)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("tag chunk %d", chunkIndex), err)
		}

		for _, span := range spans {
			entityType, ok := labelMap[span.Label]
			if !ok {
				continue
			}

			name := strings.TrimSpace(span.Text)
			if len(name) < 2 {
				continue
			}

			source := model.SourceSnippet{
				DocID:      docID,
				Snippet:    snippetAround(chunk, span.Start, span.End),
				ChunkIndex: chunkIndex,
			}

			if existing, ok := entityMap[name]; ok {
				existing.AddSource(source)
				existing.Confidence = minFloat(0.99, existing.Confidence+0.05)
				continue
			}

			lengthBoost := minFloat(0.2, float64(len(name))*0.01)
			entityMap[name] = &model.Entity{
				ID:         uuid.New(),
				Name:       name,
				Type:       entityType,
				Confidence: minFloat(0.95, taggerBaseConfidence+lengthBoost),
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
	return entities, nil
}

// snippetAround returns the text window around a span with newlines
// flattened to spaces.
func snippetAround(chunk string, start, end int) string {
	from := start - snippetWindow
	if from < 0 {
		from = 0
	}
	to := end + snippetWindow
	if to > len(chunk) {
		to = len(chunk)
	}
	if from > to {
		from = to
	}
	return strings.TrimSpace(strings.ReplaceAll(chunk[from:to], "\n", " "))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
