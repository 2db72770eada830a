package model

import "time"

// ExtractConfig represents configuration for one extraction run.
type ExtractConfig struct {
	// Relationship building parameters
	MinWeight   float64 `json:"min_weight"`   // Minimum co-occurrence weight to keep a relationship
	MaxExamples int     `json:"max_examples"` // Example chunks attached per relationship

	// Classification parameters
	ClassifyMinWeight   float64       `json:"classify_min_weight"` // Weight bar for classification
	ClassifyLimit       int           `json:"classify_limit"`      // Top-K relationships sent to classification
	ClassifyDelay       time.Duration `json:"classify_delay"`      // Delay between model fallback calls
	MaxClassifySnippets int           `json:"max_classify_snippets"`

	// Embedding parameters
	EmbeddingDimensions int `json:"embedding_dimensions"` // Expected vector dimensionality
	EmbeddingBatchSize  int `json:"embedding_batch_size"`
}

// DefaultExtractConfig returns the deployment default configuration.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		MinWeight:           0.3,
		MaxExamples:         3,
		ClassifyMinWeight:   0.5,
		ClassifyLimit:       20,
		ClassifyDelay:       500 * time.Millisecond,
		MaxClassifySnippets: 5,
		EmbeddingDimensions: 768,
		EmbeddingBatchSize:  10,
	}
}
