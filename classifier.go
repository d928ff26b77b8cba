package tosfetch

import "context"

// RiskScore grades how unfavourable a Terms & Conditions document is.
type RiskScore string

// RiskScore values.
const (
	RiskLow    RiskScore = "LOW"
	RiskMedium RiskScore = "MEDIUM"
	RiskHigh   RiskScore = "HIGH"
)

// Assessment is the classifier's verdict on a document.
type Assessment struct {
	Summary string    `json:"summary"`
	Risk    RiskScore `json:"riskScore"`
	Alerts  []string  `json:"alerts"`
}

// Classifier summarizes extracted text and flags risky clauses.
// Implementations live outside this module.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Assessment, error)
}
