package safety

import "fmt"

// Finding is the per-category outcome of a classification.
type Finding struct {
	Category   Category        `json:"category"`
	Matched    bool            `json:"matched"`
	Confidence ConfidenceLevel `json:"confidence,omitempty"`
}

// Verdict is the structured result of classifying one user turn. Findings
// hold one entry per recognized category, in Categories() order. A verdict is
// a turn-scoped value: it is never cached or reused across turns.
type Verdict struct {
	Findings      []Finding `json:"findings"`
	Blocked       bool      `json:"blocked"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// FailedOpen reports whether this verdict was produced by the fail-open
// mapping rather than a real classification.
func (v Verdict) FailedOpen() bool {
	return v.FailureReason != ""
}

// MatchedCategories returns the categories that matched, regardless of
// whether their confidence satisfied the gating threshold. Operator-facing
// only; never shown to end users.
func (v Verdict) MatchedCategories() []Category {
	var matched []Category
	for _, f := range v.Findings {
		if f.Matched {
			matched = append(matched, f.Category)
		}
	}
	return matched
}

// ClassificationError marks any failure to obtain a usable verdict from the
// remote classifier: transport errors, timeouts, non-200 statuses, missing
// credentials and unparseable bodies all collapse into it. It is the hard
// fail-open boundary of the pipeline.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

func NewClassificationError(reason string, err error) *ClassificationError {
	return &ClassificationError{Reason: reason, Err: err}
}

// FailOpenVerdict is the single place where an inability to classify becomes
// an allowing verdict. Every finding defaults to not matched and Blocked is
// forced false; the failure reason is preserved for operator diagnostics.
func FailOpenVerdict(reason string) Verdict {
	categories := Categories()
	findings := make([]Finding, 0, len(categories))
	for _, c := range categories {
		findings = append(findings, Finding{Category: c})
	}
	return Verdict{
		Findings:      findings,
		FailureReason: reason,
	}
}
