package application

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Answer pairs one persona's name with its response to the shared input.
type Answer struct {
	Persona string
	Text    string
}

// Session fans one user message out to every persona agent concurrently
// and waits for all of them. Agents share nothing but the immutable input
// string, so no ordering between them is guaranteed or needed.
type Session struct {
	agents []*PersonaAgent
}

func NewSession(agents ...*PersonaAgent) (*Session, error) {
	if len(agents) == 0 {
		return nil, errors.New("session requires at least one agent")
	}
	return &Session{agents: agents}, nil
}

func (s *Session) Agents() []*PersonaAgent {
	return s.agents
}

// Ask runs one turn for every agent and returns the answers in agent
// construction order.
func (s *Session) Ask(ctx context.Context, userText string) ([]Answer, error) {
	answers := make([]Answer, len(s.agents))

	group, ctx := errgroup.WithContext(ctx)
	for i, agent := range s.agents {
		i, agent := i, agent
		group.Go(func() error {
			text, err := agent.Chat(ctx, userText)
			if err != nil {
				return err
			}
			answers[i] = Answer{Persona: agent.Name(), Text: text}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return answers, nil
}
