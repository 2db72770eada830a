package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/organizer/helper"
)

// DefaultEmbedder creates an embedding batcher using the all-MiniLM-L6-v2
// sentence transformer model (384 dimensions). Texts are embedded in
// batches of batchSize; a failing batch leaves nil entries for its items
// and the remaining batches continue.
func DefaultEmbedder(batchSize int) (EmbedBatchFunc, error) {
	if batchSize <= 0 {
		batchSize = 10
	}

	modelName := "sentence-transformers/all-MiniLM-L6-v2"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(texts []string) ([][]float32, error) {
		results := make([][]float32, len(texts))

		for start := 0; start < len(texts); start += batchSize {
			end := start + batchSize
			if end > len(texts) {
				end = len(texts)
			}

			result, err := sentencePipeline.RunPipeline(texts[start:end])
			if err != nil {
				// Per-batch soft failure, entries stay nil
				continue
			}

			for i, embedding := range result.Embeddings {
				if start+i < len(results) {
					results[start+i] = embedding
				}
			}
		}

		return results, nil
	}, nil
}

// validateEmbeddings drops vectors whose dimensionality differs from the
// expected one, replacing them with nil. A dimensions value of zero
// disables validation.
func validateEmbeddings(embeddings [][]float32, dimensions int) [][]float32 {
	if dimensions <= 0 {
		return embeddings
	}
	for i, embedding := range embeddings {
		if embedding != nil && len(embedding) != dimensions {
			embeddings[i] = nil
		}
	}
	return embeddings
}
