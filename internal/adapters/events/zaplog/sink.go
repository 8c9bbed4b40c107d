// Package zaplog renders rotation and pipeline events as structured log
// lines. It is the default EventSink wired by the CLI.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/bnema/microcosmos/internal/ports"
)

type Sink struct {
	logger *zap.Logger
}

var _ ports.EventSink = (*Sink)(nil)

func NewSink(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger}
}

func (s *Sink) CredentialUsed(event ports.CredentialEvent) {
	fields := []zap.Field{
		zap.String("persona", event.Persona),
		zap.String("turn_id", event.TurnID),
		zap.Int("credential_id", event.CredentialID),
		zap.Int("attempt", event.Attempt),
		zap.String("outcome", string(event.Outcome)),
	}

	switch event.Outcome {
	case ports.OutcomeSuccess:
		s.logger.Debug("credential call succeeded", fields...)
	case ports.OutcomeExhausted:
		s.logger.Error("credential pool exhausted", fields...)
	case ports.OutcomePoolReset:
		s.logger.Warn("credential pool reset", fields...)
	case ports.OutcomeAuth:
		s.logger.Warn("credential rejected", fields...)
	default:
		s.logger.Info("credential call failed", fields...)
	}
}

func (s *Sink) StageCompleted(event ports.StageEvent) {
	fields := []zap.Field{
		zap.String("persona", event.Persona),
		zap.String("turn_id", event.TurnID),
		zap.String("stage", event.Stage),
		zap.Bool("fallback", event.Fallback),
		zap.Int("output_len", len(event.Output)),
	}

	if event.Fallback {
		s.logger.Warn("stage fell back to template", fields...)
		return
	}
	s.logger.Debug("stage completed", fields...)
}
