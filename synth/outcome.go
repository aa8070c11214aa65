package synth

// Outcome classifies how a reply was produced.
type Outcome int

const (
	// OutcomeAnswer is a confident model answer.
	OutcomeAnswer Outcome = iota
	// OutcomeReferral replaced an unconfident answer with the referral message.
	OutcomeReferral
	// OutcomeApology replaced a failed model call with the apology message.
	OutcomeApology
	// OutcomeNoSource means no source was selected and the model was not called.
	OutcomeNoSource
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswer:
		return "answer"
	case OutcomeReferral:
		return "referral"
	case OutcomeApology:
		return "apology"
	case OutcomeNoSource:
		return "no_source"
	default:
		return "unknown"
	}
}
