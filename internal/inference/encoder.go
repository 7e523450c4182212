package inference

import (
	"fmt"
	"sort"
)

// Categorical field names, as the encoders and the model were fitted with.
const (
	FieldSex             = "Sex"
	FieldHousing         = "Housing"
	FieldSavingAccounts  = "Saving accounts"
	FieldCheckingAccount = "Checking account"
)

// CategoricalFields lists the fields that go through the encoder bank.
var CategoricalFields = []string{
	FieldSex,
	FieldHousing,
	FieldSavingAccounts,
	FieldCheckingAccount,
}

// LabelEncoder maps a fixed vocabulary of labels to their position in Classes.
type LabelEncoder struct {
	field   string
	classes []string
	codes   map[string]int
}

func NewLabelEncoder(field string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %q has no classes", field)
	}

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("encoder %q has duplicate class %q", field, c)
		}
		codes[c] = i
	}

	return &LabelEncoder{
		field:   field,
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

func (e *LabelEncoder) Field() string {
	return e.field
}

// Classes returns a copy of the fitted vocabulary in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *LabelEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, &UnknownCategoryError{Field: e.field, Label: label, Known: e.Classes()}
	}
	return code, nil
}

// EncoderBank holds one encoder per categorical field. It is read-only after
// construction and may be shared between goroutines.
type EncoderBank struct {
	encoders map[string]*LabelEncoder
}

func NewEncoderBank(encoders ...*LabelEncoder) (*EncoderBank, error) {
	bank := &EncoderBank{encoders: make(map[string]*LabelEncoder, len(encoders))}
	for _, e := range encoders {
		if _, dup := bank.encoders[e.field]; dup {
			return nil, fmt.Errorf("duplicate encoder for field %q", e.field)
		}
		bank.encoders[e.field] = e
	}

	for _, field := range CategoricalFields {
		if _, ok := bank.encoders[field]; !ok {
			return nil, fmt.Errorf("missing encoder for field %q", field)
		}
	}

	return bank, nil
}

func (b *EncoderBank) Encode(field, label string) (int, error) {
	e, ok := b.encoders[field]
	if !ok {
		return 0, &UnknownCategoryError{Field: field, Label: label}
	}
	return e.Encode(label)
}

// Vocabularies returns every field's known labels, keyed by field name.
func (b *EncoderBank) Vocabularies() map[string][]string {
	out := make(map[string][]string, len(b.encoders))
	for field, e := range b.encoders {
		out[field] = e.Classes()
	}
	return out
}

// Fields returns the encoded field names in sorted order.
func (b *EncoderBank) Fields() []string {
	fields := make([]string, 0, len(b.encoders))
	for f := range b.encoders {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
