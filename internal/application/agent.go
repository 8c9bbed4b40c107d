package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bnema/microcosmos/internal/domain"
)

// PersonaAgent owns exactly one credential pool, one persona profile and
// one bounded conversation history. Turns for the same agent are
// serialized; two different agents can run concurrently.
type PersonaAgent struct {
	profile  domain.PersonaProfile
	pipeline *ThinkingPipeline
	rotor    *RotationController
	history  *domain.History

	mu sync.Mutex
}

func NewPersonaAgent(profile domain.PersonaProfile, pipeline *ThinkingPipeline, rotor *RotationController, historyCap int) *PersonaAgent {
	return &PersonaAgent{
		profile:  profile,
		pipeline: pipeline,
		rotor:    rotor,
		history:  domain.NewHistory(historyCap),
	}
}

func (a *PersonaAgent) Name() string {
	return a.profile.Name
}

// Chat processes one user message through the thinking pipeline and
// records the completed turn. The returned error is only ever a context
// error; everything else degrades into templated text.
func (a *PersonaAgent) Chat(ctx context.Context, userText string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	turnID := uuid.NewString()
	result, err := a.pipeline.Run(ctx, turnID, userText, a.history.Turns())
	if err != nil {
		return "", err
	}

	a.history.Append(domain.Turn{User: userText, Assistant: result.Answer})
	return result.Answer, nil
}

// Health exposes the read-only credential pool snapshot.
func (a *PersonaAgent) Health() domain.HealthSnapshot {
	return a.rotor.Health()
}

// Credentials returns a copy of the pool contents for status rendering.
func (a *PersonaAgent) Credentials() []domain.Credential {
	return a.rotor.Credentials()
}

// RotateCredential advances the active credential, for the REPL's switch
// command. Returns the new active index.
func (a *PersonaAgent) RotateCredential() int {
	return a.rotor.ForceRotate()
}

// History returns a copy of the recorded turns, oldest first.
func (a *PersonaAgent) History() []domain.Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.Turns()
}
