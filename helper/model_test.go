package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockModelDir creates a fake downloaded model directory so PrepareModel
// takes the existing-model path without any network access.
func mockModelDir(t *testing.T, sanitizedName string) string {
	t.Helper()
	modelPath := filepath.Join("./models", sanitizedName)
	require.NoError(t, os.MkdirAll(modelPath, 0750))
	t.Cleanup(func() { os.RemoveAll(modelPath) })
	return modelPath
}

func TestPrepareModel(t *testing.T) {
	t.Run("Returns existing model path without downloading", func(t *testing.T) {
		expected := mockModelDir(t, "test_mock-model")

		path, err := PrepareModel("test/mock-model", "")
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})

	t.Run("Slashes in the model name are sanitized", func(t *testing.T) {
		expected := mockModelDir(t, "organization_model-name")

		path, err := PrepareModel("organization/model-name", "")
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})

	t.Run("Names without slashes are used directly", func(t *testing.T) {
		expected := mockModelDir(t, "simple-model")

		path, err := PrepareModel("simple-model", "")
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})

	t.Run("Onnx file path is accepted for existing models", func(t *testing.T) {
		mockModelDir(t, "test_onnx-model")

		path, err := PrepareModel("test/onnx-model", "onnx/model.onnx")
		require.NoError(t, err)
		assert.NotEmpty(t, path)
	})
}
