package models

import (
	_ "embed"

	"creditrisk/predictor/internal/validation"
)

//go:embed schemas/applicant.json
var applicantSchemaJSON []byte

var applicantSchema = validation.MustCompile(applicantSchemaJSON)

// Validate enforces the numeric ranges of the form controls. Categorical
// values are left for the encoders to accept or reject.
func (a Applicant) Validate() error {
	return applicantSchema.ValidateValue(a)
}
