package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

// DegradedServiceResponse is returned when every rotation attempt failed.
// The caller treats it as a normal answer, never as an error.
const DegradedServiceResponse = "Sistem yoğunluğu nedeniyle geçici olarak hizmet veremiyorum. Lütfen biraz sonra tekrar deneyin."

// SelectionPolicy decides which credential handles the next attempt.
type SelectionPolicy int

const (
	// PolicyRoundRobin steps through the pool in order after each failure.
	// Used for the pipeline's inner thinking calls where throughput
	// matters more than picking the best key.
	PolicyRoundRobin SelectionPolicy = iota
	// PolicyHealthAware re-selects the credential with the best observed
	// success rate before every attempt. Used for final answer generation.
	PolicyHealthAware
)

const defaultCallTimeout = 60 * time.Second

// RotationController executes LLM requests against exactly one live
// credential at a time, working around quota and auth failures by rotating
// through the pool. All pool mutation goes through the controller's mutex;
// the lock is never held across a provider call.
type RotationController struct {
	pool      *domain.CredentialPool
	generator ports.Generator
	events    ports.EventSink
	persona   string
	timeout   time.Duration

	mu sync.Mutex
}

type RotationOption func(*RotationController)

// WithEventSink routes structured rotation events to the given sink.
func WithEventSink(sink ports.EventSink) RotationOption {
	return func(c *RotationController) {
		if sink != nil {
			c.events = sink
		}
	}
}

// WithCallTimeout bounds every provider call. Zero disables the bound.
func WithCallTimeout(timeout time.Duration) RotationOption {
	return func(c *RotationController) { c.timeout = timeout }
}

// WithPersonaLabel tags emitted events with the owning persona's name.
func WithPersonaLabel(name string) RotationOption {
	return func(c *RotationController) { c.persona = name }
}

func NewRotationController(pool *domain.CredentialPool, generator ports.Generator, opts ...RotationOption) *RotationController {
	c := &RotationController{
		pool:      pool,
		generator: generator,
		events:    ports.NopSink{},
		timeout:   defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs one prompt with round-robin rotation and at most one attempt
// per credential. Quota and auth failures rotate; any other error is
// returned to the caller after a single attempt.
func (c *RotationController) Execute(ctx context.Context, turnID, prompt string) (string, error) {
	return c.execute(ctx, turnID, prompt, PolicyRoundRobin, c.pool.Len())
}

// ExecuteFinal runs one prompt with health-aware selection and a wider
// attempt budget, for the answer the user actually sees.
func (c *RotationController) ExecuteFinal(ctx context.Context, turnID, prompt string) (string, error) {
	return c.execute(ctx, turnID, prompt, PolicyHealthAware, 2*c.pool.Len())
}

func (c *RotationController) execute(ctx context.Context, turnID, prompt string, policy SelectionPolicy, maxAttempts int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	rotateBeforeNext := false
	timeoutRetried := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id, secret := c.selectCredential(turnID, policy, rotateBeforeNext)
		rotateBeforeNext = false

		text, err := c.generate(ctx, secret, prompt)
		if err == nil {
			c.recordSuccess(id)
			c.emit(turnID, int(id), attempt, ports.OutcomeSuccess)
			return strings.TrimSpace(text), nil
		}

		switch domain.ClassifyCallError(err) {
		case domain.CallErrorQuota:
			c.recordQuota(id)
			c.emit(turnID, int(id), attempt, ports.OutcomeQuota)
			rotateBeforeNext = true
		case domain.CallErrorAuth:
			c.recordAuth(id)
			c.emit(turnID, int(id), attempt, ports.OutcomeAuth)
			rotateBeforeNext = true
		case domain.CallErrorTimeout:
			// A timeout says nothing about the credential: retry once on
			// the same key without touching its statistics.
			c.emit(turnID, int(id), attempt, ports.OutcomeTimeout)
			if timeoutRetried {
				return "", err
			}
			timeoutRetried = true
		default:
			c.emit(turnID, int(id), attempt, ports.OutcomeError)
			return "", err
		}
	}

	c.emit(turnID, -1, maxAttempts, ports.OutcomeExhausted)
	return DegradedServiceResponse, nil
}

func (c *RotationController) generate(ctx context.Context, secret, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.generator.Generate(ctx, secret, prompt)
}

func (c *RotationController) selectCredential(turnID string, policy SelectionPolicy, rotate bool) (domain.CredentialID, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch policy {
	case PolicyHealthAware:
		wasBlocked := c.pool.AllBlocked()
		c.pool.SelectHealthiest()
		if wasBlocked {
			c.emit(turnID, -1, 0, ports.OutcomePoolReset)
		}
	default:
		if rotate {
			c.pool.RotateNext()
		}
	}

	active := c.pool.Active()
	return active.ID, active.Secret
}

// ForceRotate advances the active credential round-robin, for the chat
// REPL's explicit switch command.
func (c *RotationController) ForceRotate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool.RotateNext()
	return c.pool.ActiveIndex()
}

// Health returns a read-only snapshot of the pool.
func (c *RotationController) Health() domain.HealthSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pool.Snapshot()
}

// Credentials returns a copy of the pool contents for status rendering.
func (c *RotationController) Credentials() []domain.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pool.Credentials()
}

func (c *RotationController) recordSuccess(id domain.CredentialID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cred, err := c.pool.Get(id); err == nil {
		cred.RecordSuccess()
	}
}

func (c *RotationController) recordQuota(id domain.CredentialID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cred, err := c.pool.Get(id); err == nil {
		cred.RecordQuotaError()
	}
}

func (c *RotationController) recordAuth(id domain.CredentialID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cred, err := c.pool.Get(id); err == nil {
		cred.RecordAuthError()
	}
}

func (c *RotationController) emit(turnID string, credentialID, attempt int, outcome ports.CredentialOutcome) {
	c.events.CredentialUsed(ports.CredentialEvent{
		Persona:      c.persona,
		TurnID:       turnID,
		CredentialID: credentialID,
		Attempt:      attempt,
		Outcome:      outcome,
	})
}
