package domain

import (
	"fmt"
	"strings"
)

// blockThreshold is the number of consecutive quota errors after which a
// credential is taken out of the health-aware selection.
const blockThreshold = 3

type CredentialID int

// Credential is one authentication secret for the LLM provider together
// with its observed health statistics. Statistics only ever move forward;
// Blocked and ConsecutiveErrors are the only fields that reset.
type Credential struct {
	ID                CredentialID
	Secret            string
	SuccessCount      int
	ErrorCount        int
	ConsecutiveErrors int
	Blocked           bool
}

func (c *Credential) RecordSuccess() {
	c.SuccessCount++
	c.ConsecutiveErrors = 0
	c.Blocked = false
}

// RecordQuotaError registers a transient provider rejection. The credential
// is blocked once it fails blockThreshold times in a row.
func (c *Credential) RecordQuotaError() {
	c.ErrorCount++
	c.ConsecutiveErrors++
	if c.ConsecutiveErrors >= blockThreshold {
		c.Blocked = true
	}
}

// RecordAuthError blocks the credential immediately: a rejected secret does
// not become valid again by waiting.
func (c *Credential) RecordAuthError() {
	c.ErrorCount++
	c.ConsecutiveErrors++
	c.Blocked = true
}

// SuccessRate reports the observed success ratio. An untried credential
// counts as 1.0 so fresh secrets are preferred over degraded ones.
func (c Credential) SuccessRate() float64 {
	total := c.SuccessCount + c.ErrorCount
	if total == 0 {
		return 1.0
	}
	return float64(c.SuccessCount) / float64(total)
}

func (c *Credential) Unblock() {
	c.ConsecutiveErrors = 0
	c.Blocked = false
}

// HealthSnapshot is the read-only view of a pool exposed to callers.
type HealthSnapshot struct {
	Healthy     int
	Total       int
	SuccessRate float64
	ActiveIndex int
}

// CredentialPool holds the ordered credentials of one persona agent and the
// index of the credential currently selected for use. The pool itself is
// not synchronized; the rotation controller serializes access.
type CredentialPool struct {
	credentials []Credential
	activeIndex int
}

// NewCredentialPool builds a pool from the configured secrets in order.
// Blank secrets are dropped; at least one usable secret is required.
func NewCredentialPool(secrets []string) (*CredentialPool, error) {
	credentials := make([]Credential, 0, len(secrets))
	for _, secret := range secrets {
		trimmed := strings.TrimSpace(secret)
		if trimmed == "" {
			continue
		}
		credentials = append(credentials, Credential{
			ID:     CredentialID(len(credentials)),
			Secret: trimmed,
		})
	}

	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}

	return &CredentialPool{credentials: credentials}, nil
}

func (p *CredentialPool) Len() int {
	return len(p.credentials)
}

func (p *CredentialPool) Active() *Credential {
	return &p.credentials[p.activeIndex]
}

func (p *CredentialPool) ActiveIndex() int {
	return p.activeIndex
}

// Get returns the credential with the given ID.
func (p *CredentialPool) Get(id CredentialID) (*Credential, error) {
	if int(id) < 0 || int(id) >= len(p.credentials) {
		return nil, fmt.Errorf("credential %d out of range [0, %d)", id, len(p.credentials))
	}
	return &p.credentials[id], nil
}

// RotateNext advances the active index round-robin, ignoring health state.
func (p *CredentialPool) RotateNext() {
	p.activeIndex = (p.activeIndex + 1) % len(p.credentials)
}

// SelectHealthiest points the active index at the unblocked credential with
// the best observed success rate, breaking ties by fewest consecutive
// errors and then by lowest ID. When every credential is blocked the whole
// pool is unblocked and index 0 selected, so a fully exhausted pool can
// never stall future calls permanently.
func (p *CredentialPool) SelectHealthiest() {
	best := -1
	for i := range p.credentials {
		if p.credentials[i].Blocked {
			continue
		}
		if best == -1 || betterHealth(p.credentials[i], p.credentials[best]) {
			best = i
		}
	}

	if best == -1 {
		p.UnblockAll()
		p.activeIndex = 0
		return
	}

	p.activeIndex = best
}

func betterHealth(a, b Credential) bool {
	if a.SuccessRate() != b.SuccessRate() {
		return a.SuccessRate() > b.SuccessRate()
	}
	if a.ConsecutiveErrors != b.ConsecutiveErrors {
		return a.ConsecutiveErrors < b.ConsecutiveErrors
	}
	return a.ID < b.ID
}

// AllBlocked reports whether no credential is currently usable.
func (p *CredentialPool) AllBlocked() bool {
	for i := range p.credentials {
		if !p.credentials[i].Blocked {
			return false
		}
	}
	return true
}

// UnblockAll clears Blocked and ConsecutiveErrors on every credential.
// Success and error totals are kept.
func (p *CredentialPool) UnblockAll() {
	for i := range p.credentials {
		p.credentials[i].Unblock()
	}
}

// Credentials returns a copy of the pool contents for read-only display.
func (p *CredentialPool) Credentials() []Credential {
	out := make([]Credential, len(p.credentials))
	copy(out, p.credentials)
	return out
}

func (p *CredentialPool) Snapshot() HealthSnapshot {
	healthy := 0
	successes := 0
	attempts := 0
	for i := range p.credentials {
		if !p.credentials[i].Blocked {
			healthy++
		}
		successes += p.credentials[i].SuccessCount
		attempts += p.credentials[i].SuccessCount + p.credentials[i].ErrorCount
	}

	rate := 1.0
	if attempts > 0 {
		rate = float64(successes) / float64(attempts)
	}

	return HealthSnapshot{
		Healthy:     healthy,
		Total:       len(p.credentials),
		SuccessRate: rate,
		ActiveIndex: p.activeIndex,
	}
}
