package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/siherrmann/organizer/model"
)

// patternConfidence is the confidence assigned to a pattern-based
// classification.
const patternConfidence = 0.85

// patternRule is one entry of the ordered classification table: a keyword
// set, an optional entity-type-pair requirement and the relation label to
// adopt. A rule with a type requirement only fires when both entity types
// are known and match in either order; an empty slot matches any type.
type patternRule struct {
	keywords []string
	types    *[2]model.EntityType
	relation string
}

func typePair(a, b model.EntityType) *[2]model.EntityType {
	return &[2]model.EntityType{a, b}
}

// patternRules is scanned in order, the first matching rule wins.
var patternRules = []patternRule{
	// Founding relationships
	{[]string{"founded", "co-founded", "started", "established", "launched"}, nil, "founded"},

	// Leadership relationships
	{[]string{"ceo", "chief executive", "president of", "head of", "director of"}, typePair(model.EntityTypePerson, model.EntityTypeOrganization), "ceo_of"},
	{[]string{"leads", "leading", "runs", "manages"}, typePair(model.EntityTypePerson, model.EntityTypeOrganization), "leads"},

	// Employment relationships
	{[]string{"works at", "employed by", "employee of", "working at"}, typePair(model.EntityTypePerson, model.EntityTypeOrganization), "works_at"},
	{[]string{"joined", "hired by"}, typePair(model.EntityTypePerson, model.EntityTypeOrganization), "works_at"},

	// Creation/authorship
	{[]string{"authored", "wrote", "published"}, typePair(model.EntityTypePerson, model.EntityTypePaper), "authored"},
	{[]string{"created", "developed", "invented", "designed"}, nil, "created"},

	// Location relationships
	{[]string{"headquartered in", "based in", "headquarters in"}, typePair(model.EntityTypeOrganization, model.EntityTypeLocation), "headquartered_in"},
	{[]string{"located in", "situated in", "in"}, typePair("", model.EntityTypeLocation), "located_in"},
	{[]string{"born in"}, typePair(model.EntityTypePerson, model.EntityTypeLocation), "born_in"},
	{[]string{"lives in", "resides in"}, typePair(model.EntityTypePerson, model.EntityTypeLocation), "lives_in"},

	// Collaboration
	{[]string{"collaborated with", "worked with", "partnered with"}, typePair(model.EntityTypePerson, model.EntityTypePerson), "collaborated_with"},
	{[]string{"colleague"}, typePair(model.EntityTypePerson, model.EntityTypePerson), "colleague_of"},

	// Organizational
	{[]string{"acquired", "bought", "purchased"}, typePair(model.EntityTypeOrganization, model.EntityTypeOrganization), "acquired_by"},
	{[]string{"part of", "subsidiary of", "division of"}, typePair(model.EntityTypeOrganization, model.EntityTypeOrganization), "part_of"},
}

// ClassifyWithPatterns matches the concatenated lowercased examples
// against the pattern table. It returns the relation type of the first
// matching rule, or false when nothing matched and the model fallback
// should run.
func ClassifyWithPatterns(examples []string, sourceType, targetType model.EntityType) (string, bool) {
	text := strings.ToLower(strings.Join(examples, " "))

	for _, rule := range patternRules {
		if !containsAnyKeyword(text, rule.keywords) {
			continue
		}
		if rule.types != nil && !typeRequirementMatches(*rule.types, sourceType, targetType) {
			continue
		}
		return rule.relation, true
	}

	return "", false
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// typeRequirementMatches checks an entity-type-pair requirement against
// the actual pair in either order. An empty requirement slot matches any
// type, but a rule with a requirement never fires on unknown types.
func typeRequirementMatches(required [2]model.EntityType, typeA, typeB model.EntityType) bool {
	if typeA == "" || typeB == "" {
		return false
	}
	slotMatches := func(required, actual model.EntityType) bool {
		return required == "" || required == actual
	}
	if slotMatches(required[0], typeA) && slotMatches(required[1], typeB) {
		return true
	}
	return slotMatches(required[0], typeB) && slotMatches(required[1], typeA)
}

// ClassifyRelationships upgrades the relation type of each relationship
// whose weight reaches the classification bar, patterns first and the
// model collaborator as fallback. Confidence is never lowered. A failing
// model call is a per-item soft failure: the relationship keeps its
// default type and the batch continues. The configured delay applies
// between model fallback calls only and is skipped after the last item.
func ClassifyRelationships(ctx context.Context, relationships []*model.Relationship, classifier ClassifyFunc, entityTypes map[string]model.EntityType, config model.ExtractConfig, logger *slog.Logger) []*model.Relationship {
	for idx, rel := range relationships {
		if rel.Weight < config.ClassifyMinWeight {
			continue
		}

		sourceType := entityTypes[rel.SourceEntity]
		targetType := entityTypes[rel.TargetEntity]

		var classification model.Classification
		usedModel := false

		if relation, ok := ClassifyWithPatterns(rel.Examples, sourceType, targetType); ok {
			classification = model.Classification{Type: relation, Confidence: patternConfidence}
		} else {
			usedModel = true
			examples := rel.Examples
			if config.MaxClassifySnippets > 0 && len(examples) > config.MaxClassifySnippets {
				examples = examples[:config.MaxClassifySnippets]
			}
			result, err := classifier(ctx, rel.SourceEntity, rel.TargetEntity, examples, sourceType, targetType)
			if err != nil {
				logger.Warn("Failed to classify relationship",
					slog.String("source", rel.SourceEntity),
					slog.String("target", rel.TargetEntity),
					slog.String("error", err.Error()))
				continue
			}
			classification = result
		}

		rel.RelationType = strings.ToLower(classification.Type)
		if classification.Confidence > rel.Confidence {
			rel.Confidence = classification.Confidence
		}

		// Rate limit the external collaborator, not the pattern table
		if usedModel && idx < len(relationships)-1 && config.ClassifyDelay > 0 {
			select {
			case <-time.After(config.ClassifyDelay):
			case <-ctx.Done():
			}
		}
	}

	return relationships
}
