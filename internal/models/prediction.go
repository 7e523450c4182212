package models

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is one stored prediction in the optional history table.
type Prediction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Age             int       `gorm:"not null" json:"age"`
	Sex             string    `gorm:"type:text;not null" json:"sex"`
	Job             int       `gorm:"not null" json:"job"`
	Housing         string    `gorm:"type:text;not null" json:"housing"`
	SavingAccounts  string    `gorm:"type:text;not null" json:"saving_accounts"`
	CheckingAccount string    `gorm:"type:text;not null" json:"checking_account"`
	CreditAmount    int       `gorm:"not null" json:"credit_amount"`
	Duration        int       `gorm:"not null" json:"duration"`
	EncodedRow      string    `gorm:"type:text;not null" json:"encoded_row"`
	Verdict         string    `gorm:"type:text;not null;index" json:"verdict"`
	ClassID         int       `gorm:"not null" json:"class_id"`
	ProbabilityGood *float64  `gorm:"type:double precision" json:"probability_good,omitempty"`
	CreatedAt       time.Time `gorm:"not null;index" json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}
