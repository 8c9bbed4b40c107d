package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/microcosmos/internal/adapters/render/status"
)

func newStatusCmd(wire appFactory) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show credential pool health per persona",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(cmd)
			if err != nil {
				return err
			}

			statuses := a.personaStatuses()
			if asJSON {
				return writeStatusesJSON(cmd, statuses)
			}

			rendered, err := statusadapter.Render(statuses)
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of styled output")
	return cmd
}

func writeStatusesJSON(cmd *cobra.Command, statuses []statusadapter.PersonaStatus) error {
	// Secrets never leave the process, in any output format.
	for i := range statuses {
		for j := range statuses[i].Credentials {
			statuses[i].Credentials[j].Secret = ""
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(statuses)
}
