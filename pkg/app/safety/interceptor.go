package safety

import (
	"context"
	"errors"
	"strings"
	"time"

	domainSafety "github.com/commercegate/catalog-agent/pkg/domain/safety"
	"github.com/commercegate/catalog-agent/pkg/infra/armor"
	"github.com/commercegate/catalog-agent/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Interceptor runs once per turn, strictly before the agent (and therefore
// before any tool call), and decides whether the turn may proceed. Results
// are never cached: every turn is re-classified.
//
//go:generate mockery --name=Interceptor --dir=. --output=./mocks --filename=interceptor_mock.go --case=underscore --with-expecter
type Interceptor interface {
	Check(ctx context.Context, text string) domainSafety.GateResult
}

type TurnInterceptor struct {
	classifier armor.Client
	logger     *logrus.Logger
}

// NewTurnInterceptor builds the before-turn safety hook. A nil classifier
// produces a pass-through interceptor, used when the gate is optional and
// its configuration is absent.
func NewTurnInterceptor(logger *logrus.Logger, classifier armor.Client) *TurnInterceptor {
	return &TurnInterceptor{
		classifier: classifier,
		logger:     logger,
	}
}

// Enabled reports whether the interceptor will actually classify input.
func (i *TurnInterceptor) Enabled() bool {
	return i.classifier != nil
}

func (i *TurnInterceptor) Check(ctx context.Context, text string) domainSafety.GateResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// Nothing to classify; no outbound call is made.
		return domainSafety.GateResult{}
	}

	if i.classifier == nil {
		return domainSafety.GateResult{}
	}

	verdict := i.classify(ctx, trimmed)
	result := domainSafety.Decide(verdict)

	switch {
	case result.Blocked:
		prometheus.TurnsTotal.WithLabelValues(prometheus.OutcomeBlocked).Inc()
		for _, category := range verdict.MatchedCategories() {
			prometheus.BlockedCategories.WithLabelValues(string(category)).Inc()
		}
		i.logger.WithField("categories", verdict.MatchedCategories()).Info("turn blocked by safety gate")
	case verdict.FailedOpen():
		prometheus.TurnsTotal.WithLabelValues(prometheus.OutcomeFailedOpen).Inc()
	default:
		prometheus.TurnsTotal.WithLabelValues(prometheus.OutcomeAllowed).Inc()
	}

	return result
}

func (i *TurnInterceptor) classify(ctx context.Context, text string) domainSafety.Verdict {
	start := time.Now()
	resp, err := i.classifier.SanitizeUserPrompt(ctx, text)
	prometheus.ClassifierLatency.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		reason := "classifier unavailable"
		var classErr *domainSafety.ClassificationError
		if errors.As(err, &classErr) {
			reason = classErr.Reason
		}
		prometheus.ClassifierFailures.WithLabelValues(reason).Inc()
		i.logger.WithError(err).Warn("prompt classification failed, allowing turn")
		return domainSafety.FailOpenVerdict(reason)
	}

	return armor.ParseVerdict(resp)
}
