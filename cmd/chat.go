package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/microcosmos/internal/adapters/render/status"
	"github.com/bnema/microcosmos/internal/application"
)

func newChatCmd(wire appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with the personas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(cmd)
			if err != nil {
				return err
			}
			return runChat(cmd, a)
		},
	}
}

func runChat(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(a.session.Agents()))
	for _, agent := range a.session.Agents() {
		names = append(names, agent.Name())
	}
	fmt.Fprintf(out, "Personas: %s\n", strings.Join(names, ", "))
	fmt.Fprintln(out, "Commands: status, switch, quit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Görüşürüz!")
			return nil
		case "switch":
			for _, agent := range a.session.Agents() {
				index := agent.RotateCredential()
				fmt.Fprintf(out, "%s: switched to key #%d\n", agent.Name(), index)
			}
		case "status":
			rendered, err := statusadapter.Render(a.personaStatuses())
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}
			fmt.Fprintln(out, rendered)
		default:
			answers, err := askSession(cmd, a.session, line)
			if err != nil {
				return err
			}
			for _, answer := range answers {
				fmt.Fprintf(out, "\n%s: %s\n", answer.Persona, answer.Text)
			}
		}
	}

	return scanner.Err()
}

func askSession(cmd *cobra.Command, session *application.Session, userText string) ([]application.Answer, error) {
	names := make([]string, 0, len(session.Agents()))
	for _, agent := range session.Agents() {
		names = append(names, agent.Name())
	}

	var answers []application.Answer
	err := runThinkingSpinner(cmd.Context(), cmd.OutOrStdout(), names, func(ctx context.Context) error {
		got, askErr := session.Ask(ctx, userText)
		if askErr != nil {
			return askErr
		}
		answers = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}
