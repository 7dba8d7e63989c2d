package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	appSafety "github.com/commercegate/catalog-agent/pkg/app/safety"
	"github.com/commercegate/catalog-agent/pkg/domain/catalog"
	"github.com/commercegate/catalog-agent/pkg/domain/session"
	"github.com/commercegate/catalog-agent/pkg/infra/providers"
	"github.com/commercegate/catalog-agent/pkg/infra/retail"
	"github.com/sirupsen/logrus"
)

// Reply is the agent's answer for one turn.
type Reply struct {
	Text     string            `json:"text"`
	Blocked  bool              `json:"blocked"`
	Products []catalog.Product `json:"products,omitempty"`
}

// action is the JSON envelope the model emits each turn.
type action struct {
	Action string `json:"action"`
	Query  string `json:"query,omitempty"`
	Text   string `json:"text,omitempty"`
}

const (
	actionSearch = "search"
	actionAnswer = "answer"
)

type Agent struct {
	provider    providers.Client
	providerCfg providers.Config
	catalog     retail.Client
	interceptor appSafety.Interceptor
	sessions    session.Repository
	logger      *logrus.Logger
}

func NewAgent(
	logger *logrus.Logger,
	provider providers.Client,
	providerCfg providers.Config,
	catalogClient retail.Client,
	interceptor appSafety.Interceptor,
	sessions session.Repository,
) *Agent {
	providerCfg.SystemPrompt = systemPrompt
	return &Agent{
		provider:    provider,
		providerCfg: providerCfg,
		catalog:     catalogClient,
		interceptor: interceptor,
		sessions:    sessions,
		logger:      logger,
	}
}

// Respond runs one turn. The safety interceptor runs first, before the
// provider and before any tool call; a blocked turn short-circuits with the
// fixed refusal and touches neither the model nor the catalog.
func (a *Agent) Respond(ctx context.Context, sessionID, userText string) (*Reply, error) {
	if gate := a.interceptor.Check(ctx, userText); gate.Blocked {
		return &Reply{Text: gate.Message, Blocked: true}, nil
	}

	sess := a.loadSession(ctx, sessionID)

	prompt := buildPrompt(sess.History, userText)

	completion, err := a.provider.Ask(ctx, &a.providerCfg, prompt)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}

	act := parseAction(completion.Response)

	reply := &Reply{}
	switch act.Action {
	case actionSearch:
		reply, err = a.runSearchTurn(ctx, act.Query)
		if err != nil {
			return nil, err
		}
	default:
		reply.Text = act.Text
	}

	sess.Append(userText, reply.Text)
	if err := a.sessions.Save(ctx, sess); err != nil {
		// The turn already succeeded; losing history is not worth failing it.
		a.logger.WithError(err).Warn("failed to persist session history")
	}

	return reply, nil
}

func (a *Agent) runSearchTurn(ctx context.Context, query string) (*Reply, error) {
	products, err := a.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	resultsJSON, err := json.Marshal(map[string]any{"items": products})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search results: %w", err)
	}

	completion, err := a.provider.Ask(ctx, &a.providerCfg, fmt.Sprintf(searchResultsPrompt, query, resultsJSON))
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}

	act := parseAction(completion.Response)

	return &Reply{
		Text:     act.Text,
		Products: products,
	}, nil
}

func (a *Agent) loadSession(ctx context.Context, sessionID string) *session.Session {
	sess, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			a.logger.WithError(err).Warn("failed to load session, starting fresh")
		}
		return session.NewSession(sessionID)
	}
	return sess
}

func buildPrompt(history []session.Message, userText string) string {
	if len(history) == 0 {
		return userText
	}

	var b strings.Builder
	b.WriteString("[Conversation so far]\n")
	for _, msg := range history {
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	b.WriteString("\n[User]\n")
	b.WriteString(userText)
	return b.String()
}

// parseAction tolerates models that ignore the envelope: anything that does
// not decode as an action is treated as a direct answer.
func parseAction(response string) action {
	var act action
	if err := json.Unmarshal([]byte(response), &act); err != nil || act.Action == "" {
		return action{Action: actionAnswer, Text: response}
	}
	if act.Action == actionAnswer && act.Text == "" {
		act.Text = response
	}
	return act
}
