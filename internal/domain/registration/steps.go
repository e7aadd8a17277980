package registration

// StepID identifies a wizard step.
type StepID string

// Wizard steps, in order.
const (
	StepPhone          StepID = "phone"
	StepName           StepID = "name"
	StepIntroduction   StepID = "introduction"
	StepServiceAreas   StepID = "service-areas"
	StepCertifications StepID = "certifications"
)

// Step is one screen of the wizard.
type Step struct {
	ID       StepID
	Label    string
	Optional bool
	Validate Validator
}

// DefaultSteps returns the five companion registration steps.
func DefaultSteps() []Step {
	return []Step{
		{ID: StepPhone, Label: "휴대폰 인증", Validate: ValidatePhoneVerified},
		{ID: StepName, Label: "이름", Validate: ValidateName},
		{ID: StepIntroduction, Label: "자기소개", Validate: ValidateIntroduction},
		{ID: StepServiceAreas, Label: "활동 지역", Validate: ValidateServiceAreas},
		{ID: StepCertifications, Label: "자격증", Optional: true, Validate: ValidateCertifications},
	}
}

// Labels returns the label of each step.
func Labels(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Label
	}
	return out
}
