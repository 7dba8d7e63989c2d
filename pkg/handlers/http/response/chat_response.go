package response

import "github.com/commercegate/catalog-agent/pkg/domain/catalog"

type ChatResponse struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Blocked   bool              `json:"blocked"`
	Products  []catalog.Product `json:"products,omitempty"`
}

// KakaoSkillResponse is the fixed 2.0 envelope the chat platform expects.
// Blocked turns use the same shape; the platform always gets HTTP 200.
type KakaoSkillResponse struct {
	Version  string        `json:"version"`
	Template KakaoTemplate `json:"template"`
}

type KakaoTemplate struct {
	Outputs []KakaoOutput `json:"outputs"`
}

type KakaoOutput struct {
	SimpleText KakaoSimpleText `json:"simpleText"`
}

type KakaoSimpleText struct {
	Text string `json:"text"`
}

func NewKakaoSkillResponse(text string) KakaoSkillResponse {
	return KakaoSkillResponse{
		Version: "2.0",
		Template: KakaoTemplate{
			Outputs: []KakaoOutput{
				{SimpleText: KakaoSimpleText{Text: text}},
			},
		},
	}
}
