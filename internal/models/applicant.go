package models

import "creditrisk/predictor/internal/inference"

// Applicant is the prediction request, as submitted by the form page, the
// JSON API or the CLI.
type Applicant struct {
	Age             int    `json:"age" form:"age" yaml:"age"`
	Sex             string `json:"sex" form:"sex" yaml:"sex"`
	Job             int    `json:"job" form:"job" yaml:"job"`
	Housing         string `json:"housing" form:"housing" yaml:"housing"`
	SavingAccounts  string `json:"saving_accounts" form:"saving_accounts" yaml:"saving_accounts"`
	CheckingAccount string `json:"checking_account" form:"checking_account" yaml:"checking_account"`
	CreditAmount    int    `json:"credit_amount" form:"credit_amount" yaml:"credit_amount"`
	Duration        int    `json:"duration" form:"duration" yaml:"duration"`
}

// DefaultApplicant is what the form shows before the first submit.
func DefaultApplicant() Applicant {
	return Applicant{
		Age:             30,
		Sex:             "male",
		Job:             1,
		Housing:         "own",
		SavingAccounts:  "little",
		CheckingAccount: "little",
		CreditAmount:    1000,
		Duration:        12,
	}
}

func (a Applicant) ToInference() inference.Applicant {
	return inference.Applicant{
		Age:             a.Age,
		Sex:             a.Sex,
		Job:             a.Job,
		Housing:         a.Housing,
		SavingAccounts:  a.SavingAccounts,
		CheckingAccount: a.CheckingAccount,
		CreditAmount:    a.CreditAmount,
		DurationMonths:  a.Duration,
	}
}

// Choices offered by the form's select controls.
var (
	SexOptions             = []string{"male", "female"}
	HousingOptions         = []string{"own", "rent", "free"}
	SavingAccountsOptions  = []string{"little", "moderate", "rich", "quite rich"}
	CheckingAccountOptions = []string{"little", "moderate", "rich"}
)
