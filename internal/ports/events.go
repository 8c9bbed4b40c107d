package ports

// CredentialOutcome is the result of one call attempt against one
// credential, as seen by the rotation controller.
type CredentialOutcome string

const (
	OutcomeSuccess   CredentialOutcome = "success"
	OutcomeQuota     CredentialOutcome = "quota"
	OutcomeAuth      CredentialOutcome = "auth"
	OutcomeTimeout   CredentialOutcome = "timeout"
	OutcomeError     CredentialOutcome = "error"
	OutcomeExhausted CredentialOutcome = "exhausted"
	OutcomePoolReset CredentialOutcome = "pool_reset"
)

// CredentialEvent describes one rotation decision. CredentialID is -1 for
// pool-level events (exhaustion, reset).
type CredentialEvent struct {
	Persona      string
	TurnID       string
	CredentialID int
	Attempt      int
	Outcome      CredentialOutcome
}

// StageEvent describes one completed pipeline stage.
type StageEvent struct {
	Persona  string
	TurnID   string
	Stage    string
	Fallback bool
	Output   string
}

// EventSink receives structured rotation and pipeline events. It decouples
// the controller and pipeline from any terminal or log rendering.
type EventSink interface {
	CredentialUsed(event CredentialEvent)
	StageCompleted(event StageEvent)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) CredentialUsed(CredentialEvent) {}
func (NopSink) StageCompleted(StageEvent)      {}
