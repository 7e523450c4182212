package models

import (
	"time"

	"creditrisk/predictor/internal/inference"
)

// PredictionResponse is returned by the prediction API and the CLI.
type PredictionResponse struct {
	ID              string                 `json:"id" yaml:"id"`
	Verdict         string                 `json:"verdict" yaml:"verdict"`
	ClassID         int                    `json:"class_id" yaml:"class_id"`
	ProbabilityGood *float64               `json:"probability_good,omitempty" yaml:"probability_good,omitempty"`
	ProbabilityBad  *float64               `json:"probability_bad,omitempty" yaml:"probability_bad,omitempty"`
	CreditAmount    int                    `json:"credit_amount" yaml:"credit_amount"`
	Duration        int                    `json:"duration" yaml:"duration"`
	EncodedInput    []inference.NamedValue `json:"encoded_input" yaml:"encoded_input"`
	CreatedAt       time.Time              `json:"created_at" yaml:"created_at"`
}

// HistoryResponse lists stored predictions, newest first.
type HistoryResponse struct {
	Predictions []Prediction `json:"predictions"`
	Count       int          `json:"count"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    int         `json:"code"`
	Reason  string      `json:"reason,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
