package armor

import (
	"github.com/commercegate/catalog-agent/pkg/domain/safety"
)

// ParseVerdict maps a raw sanitize response onto the domain verdict. Pure
// and idempotent: parsing the same response twice yields identical verdicts.
// Each filter is read independently; a missing nested structure for one
// category never aborts the others, it just defaults that category to
// not-matched. A nil or structurally empty response fails open.
func ParseVerdict(resp *SanitizeResponse) safety.Verdict {
	if resp == nil || resp.SanitizationResult == nil {
		return safety.FailOpenVerdict("empty sanitization result")
	}

	result := resp.SanitizationResult
	if result.FilterMatchState != MatchFound || result.FilterResults == nil {
		// No overall match: every finding defaults to not matched.
		return safety.Verdict{Findings: emptyFindings()}
	}

	filters := result.FilterResults
	verdict := safety.Verdict{
		Findings: make([]safety.Finding, 0, len(safety.Categories())),
	}

	for _, category := range safety.Categories() {
		finding := parseFinding(category, filters)
		if finding.Matched && (!category.ConfidenceGated() || finding.Confidence.Blocking()) {
			verdict.Blocked = true
		}
		verdict.Findings = append(verdict.Findings, finding)
	}

	return verdict
}

func parseFinding(category safety.Category, filters *FilterResults) safety.Finding {
	finding := safety.Finding{Category: category}

	switch category {
	case safety.CategorySensitiveData:
		if filters.SDP != nil &&
			filters.SDP.SDPFilterResult != nil &&
			filters.SDP.SDPFilterResult.InspectResult != nil &&
			filters.SDP.SDPFilterResult.InspectResult.MatchState == MatchFound {
			finding.Matched = true
		}
	case safety.CategoryPromptInjection:
		if filters.PiAndJailbreak != nil && filters.PiAndJailbreak.PiAndJailbreakFilterResult.Matched() {
			finding.Matched = true
			finding.Confidence = safety.ConfidenceLevel(filters.PiAndJailbreak.PiAndJailbreakFilterResult.ConfidenceLevel)
		}
	case safety.CategoryMaliciousURL:
		if filters.MaliciousURIs != nil && filters.MaliciousURIs.MaliciousURIFilterResult.Matched() {
			finding.Matched = true
		}
	default:
		// The four responsible-AI categories live in a keyed sub-map.
		if filters.RAI == nil || filters.RAI.RAIFilterResult == nil {
			return finding
		}
		match := filters.RAI.RAIFilterResult.RAIFilterTypeResults[raiKey(category)]
		if match.Matched() {
			finding.Matched = true
			finding.Confidence = safety.ConfidenceLevel(match.ConfidenceLevel)
		}
	}

	return finding
}

func raiKey(category safety.Category) string {
	switch category {
	case safety.CategoryHarassment:
		return raiHarassment
	case safety.CategorySexuallyExplicit:
		return raiSexuallyExplicit
	case safety.CategoryHateSpeech:
		return raiHateSpeech
	case safety.CategoryDangerous:
		return raiDangerous
	default:
		return ""
	}
}

func emptyFindings() []safety.Finding {
	categories := safety.Categories()
	findings := make([]safety.Finding, 0, len(categories))
	for _, c := range categories {
		findings = append(findings, safety.Finding{Category: c})
	}
	return findings
}
