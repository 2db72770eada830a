package model

// ExtractResult represents the consolidated knowledge-graph fragment
// produced for one extraction request.
type ExtractResult struct {
	Entities      []*Entity       `json:"entities"`
	Relationships []*Relationship `json:"relationships"`
}
