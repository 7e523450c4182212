package inference

// Column names of the feature row, in the order the model was trained with.
const (
	ColumnAge             = "Age"
	ColumnSex             = FieldSex
	ColumnJob             = "Job"
	ColumnHousing         = FieldHousing
	ColumnSavingAccounts  = FieldSavingAccounts
	ColumnCheckingAccount = FieldCheckingAccount
	ColumnCreditAmount    = "Credit amount"
	ColumnDuration        = "Duration"
)

var featureColumns = []string{
	ColumnAge,
	ColumnSex,
	ColumnJob,
	ColumnHousing,
	ColumnSavingAccounts,
	ColumnCheckingAccount,
	ColumnCreditAmount,
	ColumnDuration,
}

// FeatureColumns returns the fixed column order of a FeatureRow.
func FeatureColumns() []string {
	return append([]string(nil), featureColumns...)
}

// Applicant is the raw input of a single prediction.
type Applicant struct {
	Age             int
	Sex             string
	Job             int
	Housing         string
	SavingAccounts  string
	CheckingAccount string
	CreditAmount    int
	DurationMonths  int
}

// FeatureRow is the encoded, fixed-order numeric form of an Applicant.
type FeatureRow struct {
	Values []float64
}

// NamedValue pairs a feature column with its encoded value.
type NamedValue struct {
	Column string  `json:"column" yaml:"column"`
	Value  float64 `json:"value" yaml:"value"`
}

func (r FeatureRow) Columns() []string {
	return FeatureColumns()
}

func (r FeatureRow) Len() int {
	return len(r.Values)
}

// Named returns the row as column/value pairs.
func (r FeatureRow) Named() []NamedValue {
	out := make([]NamedValue, 0, len(r.Values))
	for i, v := range r.Values {
		name := ""
		if i < len(featureColumns) {
			name = featureColumns[i]
		}
		out = append(out, NamedValue{Column: name, Value: v})
	}
	return out
}

// Assemble encodes the categorical fields of a through bank and lays the
// result out in FeatureColumns order. Nothing is returned but the error when
// any field fails to encode.
func Assemble(bank *EncoderBank, a Applicant) (FeatureRow, error) {
	sex, err := bank.Encode(FieldSex, a.Sex)
	if err != nil {
		return FeatureRow{}, err
	}
	housing, err := bank.Encode(FieldHousing, a.Housing)
	if err != nil {
		return FeatureRow{}, err
	}
	saving, err := bank.Encode(FieldSavingAccounts, a.SavingAccounts)
	if err != nil {
		return FeatureRow{}, err
	}
	checking, err := bank.Encode(FieldCheckingAccount, a.CheckingAccount)
	if err != nil {
		return FeatureRow{}, err
	}

	return FeatureRow{Values: []float64{
		float64(a.Age),
		float64(sex),
		float64(a.Job),
		float64(housing),
		float64(saving),
		float64(checking),
		float64(a.CreditAmount),
		float64(a.DurationMonths),
	}}, nil
}
