package inference

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"creditrisk/predictor/internal/validation"
)

var (
	//go:embed schemas/encoder.json
	encoderSchemaJSON []byte
	//go:embed schemas/model.json
	modelSchemaJSON []byte

	encoderSchema = validation.MustCompile(encoderSchemaJSON)
	modelSchema   = validation.MustCompile(modelSchemaJSON)
)

// DefaultEncoderFileFormat names an encoder file after its field.
const DefaultEncoderFileFormat = "%s_encoder.json"

// AssetConfig locates the serialized model and encoders.
type AssetConfig struct {
	Dir               string
	ModelFile         string
	EncoderFileFormat string
	GoodClassID       int
}

func (c AssetConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

func (c AssetConfig) ModelPath() string {
	return c.resolve(c.ModelFile)
}

func (c AssetConfig) EncoderPath(field string) string {
	format := c.EncoderFileFormat
	if format == "" {
		format = DefaultEncoderFileFormat
	}
	return c.resolve(fmt.Sprintf(format, field))
}

type encoderFile struct {
	Field   string   `json:"field"`
	Classes []string `json:"classes"`
}

type nodeFile struct {
	Feature   *int      `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
	Class     *int      `json:"class"`
}

type modelFile struct {
	Kind     string   `json:"kind"`
	Classes  []int    `json:"classes"`
	Features []string `json:"features"`
	Trees    []struct {
		Nodes []nodeFile `json:"nodes"`
	} `json:"trees"`
}

// Assets is the loaded model and encoder bank. It is built once at start-up,
// never modified afterwards, and shared by every request.
type Assets struct {
	encoders    *EncoderBank
	scorer      Scorer
	proba       ProbabilityScorer
	goodClassID int
	modelPath   string
}

// NewAssets wraps an encoder bank and scorer. Whether probabilities are
// available is decided here, once.
func NewAssets(encoders *EncoderBank, scorer Scorer, goodClassID int) *Assets {
	a := &Assets{
		encoders:    encoders,
		scorer:      scorer,
		goodClassID: goodClassID,
	}
	if ps, ok := scorer.(ProbabilityScorer); ok {
		a.proba = ps
	}
	return a
}

// LoadAssets reads and validates the model and the four encoders described by
// cfg. Every failure unwraps to ErrAssetLoad.
func LoadAssets(cfg AssetConfig) (*Assets, error) {
	encoders := make([]*LabelEncoder, 0, len(CategoricalFields))
	for _, field := range CategoricalFields {
		enc, err := LoadEncoder(cfg.EncoderPath(field), field)
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, enc)
	}

	bank, err := NewEncoderBank(encoders...)
	if err != nil {
		return nil, &AssetLoadError{Path: cfg.Dir, Err: err}
	}

	model, err := LoadModel(cfg.ModelPath())
	if err != nil {
		return nil, err
	}

	a := NewAssets(bank, model.AsScorer(), cfg.GoodClassID)
	a.modelPath = cfg.ModelPath()
	return a, nil
}

// LoadEncoder reads one encoder file. A field named inside the file must
// match field.
func LoadEncoder(path, field string) (*LabelEncoder, error) {
	raw, err := readValidated(path, encoderSchema)
	if err != nil {
		return nil, err
	}

	var f encoderFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	if f.Field != "" && f.Field != field {
		return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("encoder is for field %q, expected %q", f.Field, field)}
	}

	enc, err := NewLabelEncoder(field, f.Classes)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	return enc, nil
}

// LoadModel reads a tree ensemble model file.
func LoadModel(path string) (*TreeEnsemble, error) {
	raw, err := readValidated(path, modelSchema)
	if err != nil {
		return nil, err
	}

	var f modelFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}

	trees := make([]Tree, len(f.Trees))
	for i, t := range f.Trees {
		nodes := make([]TreeNode, len(t.Nodes))
		for j, n := range t.Nodes {
			feature := -1
			if n.Feature != nil {
				feature = *n.Feature
			}
			nodes[j] = TreeNode{
				Feature:   feature,
				Threshold: n.Threshold,
				Left:      n.Left,
				Right:     n.Right,
				Value:     n.Value,
				Class:     n.Class,
			}
		}
		trees[i] = Tree{Nodes: nodes}
	}

	model, err := NewTreeEnsemble(f.Classes, f.Features, trees)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	return model, nil
}

func readValidated(path string, schema *validation.Schema) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	if err := schema.ValidateBytes(raw); err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	return raw, nil
}

// Predict encodes a, scores the row once and interprets the result.
func (a *Assets) Predict(ap Applicant) (FeatureRow, Prediction, error) {
	row, err := Assemble(a.encoders, ap)
	if err != nil {
		return FeatureRow{}, Prediction{}, err
	}

	label, err := a.scorer.Predict(row)
	if err != nil {
		return FeatureRow{}, Prediction{}, fmt.Errorf("failed to score applicant: %w", err)
	}

	var proba []ClassProbability
	if a.proba != nil {
		proba, err = a.proba.PredictProba(row)
		if err != nil {
			return FeatureRow{}, Prediction{}, fmt.Errorf("failed to compute probabilities: %w", err)
		}
	}

	return row, Interpret(label, proba, a.goodClassID), nil
}

func (a *Assets) Encoders() *EncoderBank {
	return a.encoders
}

func (a *Assets) GoodClassID() int {
	return a.goodClassID
}

func (a *Assets) SupportsProbabilities() bool {
	return a.proba != nil
}

// AssetInfo summarizes the loaded assets.
type AssetInfo struct {
	ModelPath     string              `json:"model_path,omitempty" yaml:"model_path,omitempty"`
	Classes       []int               `json:"classes" yaml:"classes"`
	GoodClassID   int                 `json:"good_class_id" yaml:"good_class_id"`
	Probabilities bool                `json:"probabilities" yaml:"probabilities"`
	Features      []string            `json:"features" yaml:"features"`
	Vocabularies  map[string][]string `json:"vocabularies" yaml:"vocabularies"`
}

func (a *Assets) Describe() AssetInfo {
	return AssetInfo{
		ModelPath:     a.modelPath,
		Classes:       a.scorer.Classes(),
		GoodClassID:   a.goodClassID,
		Probabilities: a.SupportsProbabilities(),
		Features:      FeatureColumns(),
		Vocabularies:  a.encoders.Vocabularies(),
	}
}
