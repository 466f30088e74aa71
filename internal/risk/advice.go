package risk

// Tone controls how an advice block is styled.
type Tone string

const (
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
)

// Advice is a static block of WHO lifestyle guidance.
type Advice struct {
	Kind string
	Tone Tone
	Tips []string
}

var (
	DiabeticAdvice = Advice{
		Kind: "diabetic",
		Tone: ToneWarning,
		Tips: []string{
			"Eat a balanced diet (fruits, vegetables, lean proteins).",
			"Stay active: 150 min/week moderate activity.",
			"Monitor sugar regularly & follow medication.",
		},
	}
	PreDiabeticAdvice = Advice{
		Kind: "pre-diabetic",
		Tone: ToneWarning,
		Tips: []string{
			"Reduce weight (5–10%).",
			"Avoid smoking, manage stress.",
			"Eat healthy & stay active.",
		},
	}
	HealthyAdvice = Advice{
		Kind: "healthy",
		Tone: ToneSuccess,
		Tips: []string{
			"Maintain your lifestyle: healthy eating, exercise, sleep.",
			"Regular check-ups for prevention.",
		},
	}
)

// AdviceFor selects the guidance block for a risk label.
func AdviceFor(l Label) Advice {
	switch l.Class() {
	case ClassPreDiabetes:
		return PreDiabeticAdvice
	case ClassDiabetes:
		return DiabeticAdvice
	default:
		return HealthyAdvice
	}
}
