package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/microcosmos/internal/domain"
)

// Stage names of the thinking pipeline, in execution order.
const (
	StageQuestionAnalysis = "question_analysis"
	StageSearchDecision   = "search_decision"
	StageSearchTerms      = "search_terms"
	StageNewsAnalysis     = "news_analysis"
	StageResponsePlan     = "response_plan"
	StageFinalAnswer      = "final_answer"
)

// Per-stage deterministic fallbacks, substituted when a thinking call fails
// with an unrecoverable error. No single stage failure aborts a turn.
var stageFallbacks = map[string]string{
	StageQuestionAnalysis: "Normal bir soru, karakterime uygun cevap vereceğim.",
	StageSearchDecision:   "Güncel konular için web araması gerekebilir.",
	StageSearchTerms:      "Türkiye gündem haberleri",
	StageNewsAnalysis:     "Haberleri kendi perspektifimden değerlendireceğim.",
	StageResponsePlan:     "Detaylı ve samimi bir cevap vereceğim.",
}

const genericStageFallback = "Normal yaklaşım benimserim."

// Apology shown when the final answer fails with an unclassified error.
const finalAnswerFallback = "Özür dilerim, şu anda teknik bir sorun yaşıyorum. Lütfen biraz sonra tekrar deneyin."

// Character budgets bounding what each artifact may contribute to the
// final prompt.
const (
	stageOutputBudget   = 300
	newsSummaryBudget   = 1500
	newsAnalysisBudget  = 1500
	historySnippetLimit = 100
)

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// systemPrompt renders the persona identity the way every prompt sees it.
// Lore and knowledge are clipped so a rich document cannot blow up the
// prompt size.
func systemPrompt(profile domain.PersonaProfile) string {
	lore := profile.Lore
	if len(lore) > 15 {
		lore = lore[:15]
	}
	knowledge := profile.Knowledge
	if len(knowledge) > 8 {
		knowledge = knowledge[:8]
	}

	return fmt.Sprintf(`Sen %s'sin. Aşağıdaki kimliğin:

BİOGRAFİ:
- %s

KONUŞMA TARZI:
- %s

HAYATA BAKIŞ:
- %s

BİLGİN:
- %s

ÖNEMLİ KURALLAR:
- Karakterine uygun davran
- Güncel olayları web aramalarından öğreniyorsun
- Kendi görüşlerini belirt ama saygılı ol
- Detaylı bilgi ver ama çok uzun olma`,
		profile.Name,
		strings.Join(profile.Bio, "\n- "),
		strings.Join(profile.Style.Chat, "\n- "),
		strings.Join(lore, "\n- "),
		strings.Join(knowledge, "\n- "),
	)
}

// thinkingPrompt wraps one stage topic in the fixed reasoning scaffold.
func thinkingPrompt(profile domain.PersonaProfile, topic string) string {
	return fmt.Sprintf(`Sen %s'sin. Aşağıdaki konuyu adım adım düşün:

%s

DÜŞÜNME SÜRECİN:
1. Bu durumu nasıl algılıyorsun?
2. Ne yapman gerekiyor?
3. Kararın nedir?

Kısa ve net düşünceni söyle (2-3 cümle):`, profile.Name, topic)
}

func questionAnalysisTopic(userText string) string {
	return fmt.Sprintf("Kullanıcı '%s' diyor. Bu soruya nasıl yaklaşmalısın?", userText)
}

func searchDecisionTopic(userText string) string {
	return fmt.Sprintf("'%s' için web araması gerekli mi? Bu güncel bir konu mu?", userText)
}

func searchTermsTopic(userText string) string {
	return fmt.Sprintf("'%s' için en iyi arama terimleri neler?", userText)
}

func newsAnalysisTopic(summary string) string {
	return fmt.Sprintf("Bu haber özetini kendi perspektifinden analiz et:\n\n%s", truncate(summary, newsSummaryBudget))
}

func responsePlanTopic(userText string, hasSearchData bool) string {
	state := "Yok"
	if hasSearchData {
		state = "Var"
	}
	return fmt.Sprintf("Soru: '%s' | Güncel bilgi: %s | Nasıl cevap vereyim?", userText, state)
}

// finalPrompt combines the persona identity, truncated stage artifacts,
// recent history and the user text into the single final-answer request.
func finalPrompt(profile domain.PersonaProfile, now time.Time, stages map[string]string, search domain.SearchSummary, newsAnalysis string, history []domain.Turn, userText string) string {
	var b strings.Builder

	b.WriteString(systemPrompt(profile))
	b.WriteString(fmt.Sprintf("\n\nBUGÜNÜN TARİHİ: %s\n", now.Format("02 January 2006, Monday")))

	b.WriteString("\nDÜŞÜNME SÜRECİ:\n")
	b.WriteString("Soru Analizi: " + truncate(stages[StageQuestionAnalysis], stageOutputBudget) + "\n")
	b.WriteString("Cevap Planı: " + truncate(stages[StageResponsePlan], stageOutputBudget) + "\n")

	if !search.Empty() {
		b.WriteString("\nGÜNCEL HABERLER:\n")
		b.WriteString(truncate(search.Summary, newsSummaryBudget) + "\n")
	}
	if newsAnalysis != "" {
		b.WriteString("\nKİŞİSEL ANALİZ:\n")
		b.WriteString(truncate(newsAnalysis, newsAnalysisBudget) + "\n")
	}

	for _, turn := range history {
		b.WriteString(fmt.Sprintf("\nÖnceki: Sen: %s | Ben: %s\n",
			truncate(turn.User, historySnippetLimit),
			truncate(turn.Assistant, historySnippetLimit)))
	}

	b.WriteString(fmt.Sprintf("\nKullanıcı: \"%s\"\n\nKarakterine uygun, detaylı cevap ver:", userText))

	return b.String()
}
