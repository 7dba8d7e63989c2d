package safety

// RefusalMessage is the fixed user-facing response for blocked turns. It
// deliberately does not name the matched categories, so a user probing the
// filter gets no signal to iterate against.
const RefusalMessage = "I can't help with that request due to our safety policy. Please rephrase and try again."

// GateResult is the per-turn outcome of the gate. Message is only set when
// the turn is blocked.
type GateResult struct {
	Blocked bool   `json:"blocked"`
	Message string `json:"message,omitempty"`
}

// Decide maps a verdict onto the gate outcome. Pure: the fail-open verdict
// and the empty-input case both arrive here with Blocked already false.
func Decide(verdict Verdict) GateResult {
	if !verdict.Blocked {
		return GateResult{}
	}
	return GateResult{
		Blocked: true,
		Message: RefusalMessage,
	}
}
