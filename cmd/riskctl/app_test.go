package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	argv := append([]string{"riskctl", "--assets-dir", "../../assets"}, args...)
	err := app.Run(context.Background(), argv)
	return buf.String(), err
}

func TestPredict_Defaults(t *testing.T) {
	out, err := run(t, "predict")
	require.NoError(t, err)

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "GOOD", resp.Verdict)
	assert.Equal(t, 1000, resp.CreditAmount)
	require.NotNil(t, resp.ProbabilityGood)
	assert.Greater(t, *resp.ProbabilityGood, 0.5)
	assert.Len(t, resp.EncodedInput, 8)
}

func TestPredict_LargeLongCredit(t *testing.T) {
	out, err := run(t, "predict", "--credit-amount", "50000", "--duration", "60")
	require.NoError(t, err)

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "BAD", resp.Verdict)
}

func TestPredict_YAML(t *testing.T) {
	out, err := run(t, "--format", "yaml", "predict", "--sex", "female", "--housing", "rent")
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Contains(t, []interface{}{"GOOD", "BAD"}, resp["verdict"])
	assert.Contains(t, out, "encoded_input:")
}

func TestPredict_UnknownCategory(t *testing.T) {
	_, err := run(t, "predict", "--saving-accounts", "enormous")
	require.Error(t, err)
	assert.True(t, errors.Is(err, inference.ErrUnknownCategory))
	assert.Contains(t, err.Error(), "unknown_category")
}

func TestPredict_OutOfRange(t *testing.T) {
	_, err := run(t, "predict", "--age", "15")
	assert.Error(t, err)
}

func TestPredict_MissingAssets(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"riskctl", "--assets-dir", t.TempDir(), "predict"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inference.ErrAssetLoad))
	assert.Empty(t, buf.String())
}

func TestPredict_EncoderFileFormat(t *testing.T) {
	dir := t.TempDir()

	model, err := os.ReadFile("../../assets/extra_trees_credit_model.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra_trees_credit_model.json"), model, 0o644))

	for _, field := range inference.CategoricalFields {
		raw, err := os.ReadFile(filepath.Join("../../assets", fmt.Sprintf(inference.DefaultEncoderFileFormat, field)))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("enc-%s.json", field)), raw, 0o644))
	}

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err = app.Run(context.Background(), []string{
		"riskctl", "--assets-dir", dir, "--encoder-file-format", "enc-%s.json", "predict",
	})
	require.NoError(t, err)

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "GOOD", resp.Verdict)
}

func TestPredict_EncoderFileFormatFromEnvironment(t *testing.T) {
	t.Setenv("ENCODER_FILE_FORMAT", "missing-%s.json")

	_, err := run(t, "predict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, inference.ErrAssetLoad))
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect")
	require.NoError(t, err)

	var info inference.AssetInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, []int{0, 1}, info.Classes)
	assert.True(t, info.Probabilities)
	assert.Equal(t, inference.FeatureColumns(), info.Features)
	assert.Equal(t, []string{"free", "own", "rent"}, info.Vocabularies[inference.FieldHousing])
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	err := encode(&bytes.Buffer{}, "xml", map[string]int{"a": 1})
	assert.Error(t, err)
}
