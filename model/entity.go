package model

import (
	"github.com/google/uuid"
)

// EntityType is the closed set of entity categories the pipeline emits.
type EntityType string

const (
	EntityTypePerson       EntityType = "PERSON"
	EntityTypeOrganization EntityType = "ORGANIZATION"
	EntityTypeConcept      EntityType = "CONCEPT"
	EntityTypeDate         EntityType = "DATE"
	EntityTypePaper        EntityType = "PAPER"
	EntityTypeLocation     EntityType = "LOCATION"
)

// SourceSnippet is one piece of evidence supporting an entity extraction.
type SourceSnippet struct {
	DocID      string `json:"docId"`
	Snippet    string `json:"snippet"`
	ChunkIndex int    `json:"chunkIndex"`
}

// Entity represents a named entity consolidated from one or more mentions.
// Name is the canonical display string and the merge key. Aliases holds
// alternate names that were merged into this entity and never contains the
// canonical name itself. Sources are deduplicated by exact snippet text.
type Entity struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       EntityType      `json:"type"`
	Confidence float64         `json:"confidence"`
	Sources    []SourceSnippet `json:"sources"`
	Aliases    []string        `json:"aliases"`
}

// AddSource appends a source snippet unless a source with the same snippet
// text is already present.
func (e *Entity) AddSource(source SourceSnippet) {
	for _, existing := range e.Sources {
		if existing.Snippet == source.Snippet {
			return
		}
	}
	e.Sources = append(e.Sources, source)
}

// AddAlias appends an alias unless it equals the canonical name or is
// already present.
func (e *Entity) AddAlias(alias string) {
	if alias == e.Name {
		return
	}
	for _, existing := range e.Aliases {
		if existing == alias {
			return
		}
	}
	e.Aliases = append(e.Aliases, alias)
}

// TaggedSpan is a single span returned by the rule-based tagger.
type TaggedSpan struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// EntityCandidate is a single entity proposed by the generative model for
// one text chunk, before merging with the tagger output.
type EntityCandidate struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}
