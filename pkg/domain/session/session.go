package session

import (
	"time"
)

// MaxExchanges caps how much history a session keeps. Older exchanges are
// dropped first.
const MaxExchanges = 20

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Session holds the conversation history for one chat participant. Sessions
// are TTL-bounded; expiry is enforced by the store.
type Session struct {
	ID        string    `json:"id"`
	History   []Message `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records one user/agent exchange and trims history beyond
// MaxExchanges pairs.
func (s *Session) Append(userText, agentText string) {
	now := time.Now()
	s.History = append(s.History,
		Message{Role: RoleUser, Content: userText, SentAt: now},
		Message{Role: RoleAgent, Content: agentText, SentAt: now},
	)
	if max := MaxExchanges * 2; len(s.History) > max {
		s.History = s.History[len(s.History)-max:]
	}
	s.UpdatedAt = now
}
