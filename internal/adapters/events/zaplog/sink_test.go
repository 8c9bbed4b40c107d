package zaplog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/microcosmos/internal/ports"
)

func newObservedSink(t *testing.T) (*Sink, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSink(zap.New(core)), logs
}

func TestCredentialEventsMapToLevels(t *testing.T) {
	t.Parallel()

	sink, logs := newObservedSink(t)

	sink.CredentialUsed(ports.CredentialEvent{Outcome: ports.OutcomeSuccess, CredentialID: 1})
	sink.CredentialUsed(ports.CredentialEvent{Outcome: ports.OutcomeQuota, CredentialID: 1})
	sink.CredentialUsed(ports.CredentialEvent{Outcome: ports.OutcomeExhausted, CredentialID: -1})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "credential pool exhausted", entries[2].Message)
}

func TestStageFallbackLogsAtWarn(t *testing.T) {
	t.Parallel()

	sink, logs := newObservedSink(t)

	sink.StageCompleted(ports.StageEvent{Stage: "question_analysis", Fallback: true})
	sink.StageCompleted(ports.StageEvent{Stage: "response_plan", Output: "plan"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	sink := NewSink(nil)
	assert.NotPanics(t, func() {
		sink.CredentialUsed(ports.CredentialEvent{Outcome: ports.OutcomeSuccess})
		sink.StageCompleted(ports.StageEvent{Stage: "final_answer"})
	})
}
