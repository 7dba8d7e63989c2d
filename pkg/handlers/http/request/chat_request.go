package request

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// KakaoSkillRequest is the webhook payload the chat platform posts for every
// user utterance. Only the fields the agent needs are mapped.
type KakaoSkillRequest struct {
	UserRequest KakaoUserRequest `json:"userRequest"`
}

type KakaoUserRequest struct {
	Utterance string    `json:"utterance"`
	User      KakaoUser `json:"user"`
}

type KakaoUser struct {
	ID string `json:"id"`
}
