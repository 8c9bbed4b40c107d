package application

import (
	"context"
	"strings"

	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

// DefaultTriggerWords are the substrings of the raw user text that force
// the search gate open regardless of what the decision stage said.
var DefaultTriggerWords = []string{
	"son", "güncel", "yeni", "bugün", "haber", "gündem", "olay",
	"ne oluyor", "neler oldu", "ekonomi", "politika", "seçim",
	"2024", "2025",
}

// DefaultAffirmativeMarkers open the gate when found in the decision
// stage's own output.
var DefaultAffirmativeMarkers = []string{
	"arama gerek", "gerekli", "evet",
}

// NeedsSearch is the deterministic search gate: true when any trigger word
// appears in the user text or any affirmative marker appears in the
// decision stage output. Pure function of its inputs, no model involved.
func NeedsSearch(userText, decision string, triggers, affirmatives []string) bool {
	userLower := strings.ToLower(userText)
	for _, trigger := range triggers {
		if trigger != "" && strings.Contains(userLower, strings.ToLower(trigger)) {
			return true
		}
	}

	decisionLower := strings.ToLower(decision)
	for _, marker := range affirmatives {
		if marker != "" && strings.Contains(decisionLower, strings.ToLower(marker)) {
			return true
		}
	}

	return false
}

// StageResult is one named stage's textual artifact.
type StageResult struct {
	Stage    string
	Output   string
	Fallback bool
}

// TurnResult is the ephemeral product of one pipeline run. Only the final
// answer survives into the conversation history.
type TurnResult struct {
	Answer   string
	Stages   []StageResult
	Search   domain.SearchSummary
	Searched bool
}

// PipelineConfig tunes the gate and prompt assembly.
type PipelineConfig struct {
	TriggerWords       []string
	AffirmativeMarkers []string
	HistoryTurns       int
}

func (c *PipelineConfig) applyDefaults() {
	if len(c.TriggerWords) == 0 {
		c.TriggerWords = DefaultTriggerWords
	}
	if len(c.AffirmativeMarkers) == 0 {
		c.AffirmativeMarkers = DefaultAffirmativeMarkers
	}
	if c.HistoryTurns < 1 || c.HistoryTurns > 3 {
		c.HistoryTurns = 1
	}
}

// ThinkingPipeline turns one user message into one assistant response via
// a fixed sequence of reasoning stages. Stages run strictly in order; each
// stage's prompt depends on earlier outputs.
type ThinkingPipeline struct {
	profile domain.PersonaProfile
	rotor   *RotationController
	search  *SearchService // nil disables the search leg
	events  ports.EventSink
	clock   ports.Clock
	config  PipelineConfig
}

func NewThinkingPipeline(profile domain.PersonaProfile, rotor *RotationController, search *SearchService, events ports.EventSink, clock ports.Clock, config PipelineConfig) *ThinkingPipeline {
	if events == nil {
		events = ports.NopSink{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	config.applyDefaults()

	return &ThinkingPipeline{
		profile: profile,
		rotor:   rotor,
		search:  search,
		events:  events,
		clock:   clock,
		config:  config,
	}
}

// Run executes the full stage sequence for one user message. The returned
// error is non-nil only when the context is done; every other failure
// degrades into fallback text somewhere along the pipeline.
func (p *ThinkingPipeline) Run(ctx context.Context, turnID, userText string, history []domain.Turn) (TurnResult, error) {
	var result TurnResult

	analysis := p.think(ctx, turnID, StageQuestionAnalysis, questionAnalysisTopic(userText))
	result.Stages = append(result.Stages, analysis)

	decision := p.think(ctx, turnID, StageSearchDecision, searchDecisionTopic(userText))
	result.Stages = append(result.Stages, decision)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	var newsAnalysis string
	needsSearch := NeedsSearch(userText, decision.Output, p.config.TriggerWords, p.config.AffirmativeMarkers)
	if needsSearch && p.search != nil {
		result.Searched = true

		terms := p.think(ctx, turnID, StageSearchTerms, searchTermsTopic(userText))
		result.Stages = append(result.Stages, terms)

		result.Search = p.search.Gather(ctx, strings.TrimSpace(terms.Output))

		if !result.Search.Empty() {
			analysisStage := p.think(ctx, turnID, StageNewsAnalysis, newsAnalysisTopic(result.Search.Summary))
			result.Stages = append(result.Stages, analysisStage)
			newsAnalysis = analysisStage.Output
		}
	}

	plan := p.think(ctx, turnID, StageResponsePlan, responsePlanTopic(userText, !result.Search.Empty()))
	result.Stages = append(result.Stages, plan)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if len(history) > p.config.HistoryTurns {
		history = history[len(history)-p.config.HistoryTurns:]
	}

	prompt := finalPrompt(p.profile, p.clock.Now(), stageOutputs(result.Stages), result.Search, newsAnalysis, history, userText)

	answer, err := p.rotor.ExecuteFinal(ctx, turnID, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		// Unclassified failure of the final call: apologize, don't crash.
		answer = finalAnswerFallback
	}

	result.Answer = answer
	result.Stages = append(result.Stages, StageResult{Stage: StageFinalAnswer, Output: answer, Fallback: err != nil})
	p.events.StageCompleted(ports.StageEvent{
		Persona:  p.profile.Name,
		TurnID:   turnID,
		Stage:    StageFinalAnswer,
		Fallback: err != nil,
		Output:   truncate(answer, stageOutputBudget),
	})

	return result, nil
}

// think runs one reasoning stage and substitutes the stage's deterministic
// fallback text on any error the rotation controller surfaced.
func (p *ThinkingPipeline) think(ctx context.Context, turnID, stage, topic string) StageResult {
	output, err := p.rotor.Execute(ctx, turnID, thinkingPrompt(p.profile, topic))
	fallback := err != nil || strings.TrimSpace(output) == ""
	if fallback {
		output = stageFallbacks[stage]
		if output == "" {
			output = genericStageFallback
		}
	}

	p.events.StageCompleted(ports.StageEvent{
		Persona:  p.profile.Name,
		TurnID:   turnID,
		Stage:    stage,
		Fallback: fallback,
		Output:   truncate(output, stageOutputBudget),
	})

	return StageResult{Stage: stage, Output: output, Fallback: fallback}
}

func stageOutputs(stages []StageResult) map[string]string {
	out := make(map[string]string, len(stages))
	for _, stage := range stages {
		out[stage.Stage] = stage.Output
	}
	return out
}
