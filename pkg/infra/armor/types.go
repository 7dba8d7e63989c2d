package armor

// Wire types for the prompt sanitization API. Every nested level is a
// pointer so a missing key in the response is representable and each filter
// parses independently of the others.

const (
	MatchFound   = "MATCH_FOUND"
	NoMatchFound = "NO_MATCH_FOUND"
)

// RAI filter type keys as the service names them.
const (
	raiHarassment       = "harassment"
	raiSexuallyExplicit = "sexually_explicit"
	raiHateSpeech       = "hate_speech"
	raiDangerous        = "dangerous"
)

type SanitizeRequest struct {
	UserPromptData UserPromptData `json:"user_prompt_data"`
}

type UserPromptData struct {
	Text string `json:"text"`
}

type SanitizeResponse struct {
	SanitizationResult *SanitizationResult `json:"sanitizationResult"`
}

type SanitizationResult struct {
	FilterMatchState string         `json:"filterMatchState"`
	FilterResults    *FilterResults `json:"filterResults"`
}

type FilterResults struct {
	SDP            *SDPFilter            `json:"sdp"`
	PiAndJailbreak *PiAndJailbreakFilter `json:"pi_and_jailbreak"`
	MaliciousURIs  *MaliciousURIFilter   `json:"malicious_uris"`
	RAI            *RAIFilter            `json:"rai"`
}

type SDPFilter struct {
	SDPFilterResult *SDPFilterResult `json:"sdpFilterResult"`
}

type SDPFilterResult struct {
	InspectResult *InspectResult `json:"inspectResult"`
}

type InspectResult struct {
	MatchState string `json:"matchState"`
}

type PiAndJailbreakFilter struct {
	PiAndJailbreakFilterResult *MatchResult `json:"piAndJailbreakFilterResult"`
}

type MaliciousURIFilter struct {
	MaliciousURIFilterResult *MatchResult `json:"maliciousUriFilterResult"`
}

type RAIFilter struct {
	RAIFilterResult *RAIFilterResult `json:"raiFilterResult"`
}

type RAIFilterResult struct {
	RAIFilterTypeResults map[string]*MatchResult `json:"raiFilterTypeResults"`
}

type MatchResult struct {
	MatchState      string `json:"matchState"`
	ConfidenceLevel string `json:"confidenceLevel"`
}

func (m *MatchResult) Matched() bool {
	return m != nil && m.MatchState == MatchFound
}
