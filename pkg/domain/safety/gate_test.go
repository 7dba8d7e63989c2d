package safety_test

import (
	"errors"
	"testing"

	"github.com/commercegate/catalog-agent/pkg/domain/safety"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	t.Run("blocked verdict yields the fixed refusal", func(t *testing.T) {
		result := safety.Decide(safety.Verdict{Blocked: true})

		assert.True(t, result.Blocked)
		assert.Equal(t, safety.RefusalMessage, result.Message)
	})

	t.Run("allowed verdict yields an empty result", func(t *testing.T) {
		result := safety.Decide(safety.Verdict{})

		assert.False(t, result.Blocked)
		assert.Empty(t, result.Message)
	})

	t.Run("fail-open verdict never blocks", func(t *testing.T) {
		verdict := safety.FailOpenVerdict("classifier unavailable")
		result := safety.Decide(verdict)

		assert.False(t, result.Blocked)
	})
}

func TestFailOpenVerdict(t *testing.T) {
	verdict := safety.FailOpenVerdict("sanitize request timed out")

	assert.False(t, verdict.Blocked)
	assert.True(t, verdict.FailedOpen())
	assert.Equal(t, "sanitize request timed out", verdict.FailureReason)
	assert.Len(t, verdict.Findings, len(safety.Categories()))
	for _, f := range verdict.Findings {
		assert.False(t, f.Matched)
	}
}

func TestConfidenceLevelBlocking(t *testing.T) {
	assert.True(t, safety.ConfidenceMediumAndAbove.Blocking())
	assert.True(t, safety.ConfidenceHighAndAbove.Blocking())
	assert.False(t, safety.ConfidenceLow.Blocking())
	assert.False(t, safety.ConfidenceUnknown.Blocking())
	assert.False(t, safety.ConfidenceLevel("UNEXPECTED").Blocking())
}

func TestClassificationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := safety.NewClassificationError("sanitize request failed", cause)

	assert.Equal(t, "classification failed: sanitize request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := safety.NewClassificationError("non-200 status", nil)
	assert.Equal(t, "classification failed: non-200 status", bare.Error())
}
