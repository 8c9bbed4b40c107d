package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

// generatorFunc adapts a closure into a ports.Generator.
type generatorFunc func(ctx context.Context, secret, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, secret, prompt string) (string, error) {
	return f(ctx, secret, prompt)
}

// countingGenerator records every call and answers from a per-secret script.
type countingGenerator struct {
	mu      sync.Mutex
	calls   []string // secrets in call order
	prompts []string
	script  func(secret, prompt string) (string, error)
}

func (g *countingGenerator) Generate(_ context.Context, secret, prompt string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, secret)
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.script(secret, prompt)
}

func (g *countingGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// recordingSink captures emitted events for assertions.
type recordingSink struct {
	mu         sync.Mutex
	credential []ports.CredentialEvent
	stages     []ports.StageEvent
}

func (s *recordingSink) CredentialUsed(event ports.CredentialEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = append(s.credential, event)
}

func (s *recordingSink) StageCompleted(event ports.StageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, event)
}

func (s *recordingSink) stageNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.stages))
	for _, event := range s.stages {
		names = append(names, event.Stage)
	}
	return names
}

// searchFunc adapts a closure into a ports.SearchProvider.
type searchFunc func(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

func (f searchFunc) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return f(ctx, query, limit)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func mustPool(secrets ...string) *domain.CredentialPool {
	pool, err := domain.NewCredentialPool(secrets)
	if err != nil {
		panic(err)
	}
	return pool
}
