package inference

// Verdict is the binary credit risk outcome.
type Verdict string

const (
	VerdictGood Verdict = "GOOD"
	VerdictBad  Verdict = "BAD"
)

// DefaultGoodClassID is the class id the shipped model was trained to use for
// a favorable outcome.
const DefaultGoodClassID = 1

// Prediction is the interpreted scorer output. ProbabilityGood and
// ProbabilityBad are nil when the scorer gave no usable probability.
type Prediction struct {
	Verdict         Verdict  `json:"verdict" yaml:"verdict"`
	ClassID         int      `json:"class_id" yaml:"class_id"`
	ProbabilityGood *float64 `json:"probability_good,omitempty" yaml:"probability_good,omitempty"`
	ProbabilityBad  *float64 `json:"probability_bad,omitempty" yaml:"probability_bad,omitempty"`
}

func (p Prediction) HasProbability() bool {
	return p.ProbabilityGood != nil
}

// Interpret turns a predicted label and an optional probability vector into a
// Prediction. A vector that lacks goodClassID yields no probability.
func Interpret(label int, proba []ClassProbability, goodClassID int) Prediction {
	p := Prediction{Verdict: VerdictBad, ClassID: label}
	if label == goodClassID {
		p.Verdict = VerdictGood
	}

	for _, cp := range proba {
		if cp.ClassID != goodClassID {
			continue
		}
		good := cp.Probability
		bad := 1 - good
		p.ProbabilityGood = &good
		p.ProbabilityBad = &bad
		break
	}

	return p
}
