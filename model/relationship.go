package model

// RelationshipCategory describes how a relationship was derived.
type RelationshipCategory string

const (
	RelationshipCategoryCooccurrence RelationshipCategory = "cooccurrence"
	RelationshipCategorySemantic     RelationshipCategory = "semantic"
	RelationshipCategoryExplicit     RelationshipCategory = "explicit"
)

// DefaultRelationType is the generic relation label used until a
// relationship has been classified.
const DefaultRelationType = "related_to"

// Relationship represents a typed connection between two entities.
// The relationship is undirected in meaning, but the (source, target)
// ordering assigned at creation is stable and never swapped afterwards.
// Weight is the co-occurrence strength, Confidence the classification
// confidence; both are bounded to [0,1] independently. RelationType is
// always lowercase.
type Relationship struct {
	SourceEntity string               `json:"sourceEntity"`
	TargetEntity string               `json:"targetEntity"`
	Category     RelationshipCategory `json:"type"`
	RelationType string               `json:"relationType"`
	Weight       float64              `json:"weight"`
	Confidence   float64              `json:"confidence"`
	Examples     []string             `json:"examples"`
}

// Classification is the result of classifying a single relationship,
// either by pattern matching or by the generative model.
type Classification struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}
