package onboarding

// StepID identifies a wizard step
type StepID string

const (
	StepCompanyNames     StepID = "company_names"
	StepShareholders     StepID = "shareholders"
	StepDirectors        StepID = "directors"
	StepBusinessActivity StepID = "business_activity"
	StepSourceOfFunds    StepID = "source_of_funds"
	StepDeclaration      StepID = "declaration"
	StepReview           StepID = "review"
)

// StepDescriptor is one entry in a jurisdiction's ordered step flow.
// Descriptors are defined per jurisdiction at load time and never mutated.
type StepDescriptor struct {
	ID       StepID `json:"id"`
	Title    string `json:"title"`
	Required bool   `json:"required"`
}

var stepTitles = map[StepID]string{
	StepCompanyNames:     "Company Names",
	StepShareholders:     "Shareholders",
	StepDirectors:        "Directors",
	StepBusinessActivity: "Business Activity",
	StepSourceOfFunds:    "Source of Funds",
	StepDeclaration:      "Declaration",
	StepReview:           "Review & Submit",
}

func step(id StepID, required bool) StepDescriptor {
	return StepDescriptor{ID: id, Title: stepTitles[id], Required: required}
}

// jurisdictionFlows maps each jurisdiction to its ordered step flow. Every
// flow ends in the review step. The engine is generic; only these tables
// differ per jurisdiction.
var jurisdictionFlows = map[Jurisdiction][]StepDescriptor{
	JurisdictionBVI: {
		step(StepCompanyNames, true),
		step(StepShareholders, true),
		step(StepDirectors, true),
		step(StepBusinessActivity, true),
		step(StepSourceOfFunds, true),
		step(StepDeclaration, true),
		step(StepReview, false),
	},
	JurisdictionCayman: {
		step(StepCompanyNames, true),
		step(StepShareholders, true),
		step(StepDirectors, true),
		step(StepSourceOfFunds, true),
		step(StepDeclaration, true),
		step(StepReview, false),
	},
	JurisdictionHongKong: {
		step(StepCompanyNames, true),
		step(StepShareholders, true),
		step(StepDirectors, true),
		step(StepBusinessActivity, true),
		step(StepDeclaration, true),
		step(StepReview, false),
	},
	JurisdictionPanama: {
		step(StepCompanyNames, true),
		step(StepShareholders, true),
		step(StepDirectors, true),
		step(StepBusinessActivity, false),
		step(StepSourceOfFunds, true),
		step(StepDeclaration, true),
		step(StepReview, false),
	},
	JurisdictionSingapore: {
		step(StepCompanyNames, true),
		step(StepShareholders, true),
		step(StepDirectors, true),
		step(StepBusinessActivity, true),
		step(StepSourceOfFunds, true),
		step(StepDeclaration, true),
		step(StepReview, false),
	},
}

// FlowFor returns a copy of the jurisdiction's ordered step flow
func FlowFor(j Jurisdiction) []StepDescriptor {
	flow, ok := jurisdictionFlows[j]
	if !ok {
		return nil
	}
	out := make([]StepDescriptor, len(flow))
	copy(out, flow)
	return out
}

// ReviewIndex returns the index of the terminal review step
func ReviewIndex(j Jurisdiction) int {
	return len(jurisdictionFlows[j]) - 1
}
