package safety

// Category identifies one classifier filter the safety template evaluates.
type Category string

const (
	CategorySensitiveData    Category = "sensitive_data"
	CategoryPromptInjection  Category = "prompt_injection"
	CategoryMaliciousURL     Category = "malicious_url"
	CategoryHarassment       Category = "harassment"
	CategorySexuallyExplicit Category = "sexually_explicit"
	CategoryHateSpeech       Category = "hate_speech"
	CategoryDangerous        Category = "dangerous"
)

// Categories returns every recognized category in its fixed evaluation order.
// Verdict findings are always emitted in this order.
func Categories() []Category {
	return []Category{
		CategorySensitiveData,
		CategoryPromptInjection,
		CategoryMaliciousURL,
		CategoryHarassment,
		CategorySexuallyExplicit,
		CategoryHateSpeech,
		CategoryDangerous,
	}
}

// ConfidenceGated reports whether a match in this category only blocks at
// medium-and-above confidence. Sensitive data, prompt injection and malicious
// URL matches block at any confidence.
func (c Category) ConfidenceGated() bool {
	switch c {
	case CategoryHarassment, CategorySexuallyExplicit, CategoryHateSpeech, CategoryDangerous:
		return true
	default:
		return false
	}
}

// ConfidenceLevel is the classifier's confidence in a category match.
type ConfidenceLevel string

const (
	ConfidenceUnknown        ConfidenceLevel = ""
	ConfidenceLow            ConfidenceLevel = "LOW"
	ConfidenceMediumAndAbove ConfidenceLevel = "MEDIUM_AND_ABOVE"
	ConfidenceHighAndAbove   ConfidenceLevel = "HIGH_AND_ABOVE"
)

// Blocking reports whether the confidence level satisfies the gating
// threshold for confidence-gated categories.
func (l ConfidenceLevel) Blocking() bool {
	return l == ConfidenceMediumAndAbove || l == ConfidenceHighAndAbove
}
