// Package status renders credential pool health for the terminal.
package status

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/microcosmos/internal/domain"
)

// PersonaStatus is one persona's pool as captured at render time.
type PersonaStatus struct {
	Persona     string
	Snapshot    domain.HealthSnapshot
	Credentials []domain.Credential
}

func renderView(statuses []PersonaStatus, s styles) string {
	lines := []string{
		s.title.Render("Persona Credential Health"),
		s.header.Render(fmt.Sprintf("personas: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No personas loaded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderPersona(status, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPersona(status PersonaStatus, s styles) string {
	snapshot := status.Snapshot
	parts := []string{
		s.persona.Render(status.Persona),
		s.detail.Render(fmt.Sprintf("healthy: %d/%d  pool success: %3.0f%%",
			snapshot.Healthy, snapshot.Total, snapshot.SuccessRate*100)),
	}

	for _, cred := range status.Credentials {
		parts = append(parts, credentialLine(cred, snapshot.ActiveIndex, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func credentialLine(cred domain.Credential, activeIndex int, s styles) string {
	rate := cred.SuccessRate()
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render(fmt.Sprintf("key #%d %s", cred.ID, maskSecret(cred.Secret))),
		" ",
		renderSuccessBar(rate, 16, s),
		" ",
		s.detail.Render(fmt.Sprintf("%3.0f%%  ok=%d err=%d", rate*100, cred.SuccessCount, cred.ErrorCount)),
	)

	if cred.Blocked {
		line += " " + s.warning.Render("[blocked]")
	}
	if int(cred.ID) == activeIndex {
		line += " " + s.active.Render("[active]")
	}

	return line
}

func renderSuccessBar(rate float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}

	filled := int(math.Round(float64(width) * rate))
	if filled > width {
		filled = width
	}
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

// maskSecret keeps just enough of the key to tell entries apart.
func maskSecret(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 6 {
		return "******"
	}
	return string(runes[:3]) + "…" + string(runes[len(runes)-3:])
}
