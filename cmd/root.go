package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

// appFactory wires the application lazily so commands that do not need
// API keys (version, help) work without them.
type appFactory func(cmd *cobra.Command) (*app, error)

func newRootCmd() *cobra.Command {
	var verbose bool
	var wired *app

	rootCmd := &cobra.Command{
		Use:           "microcosmos",
		Short:         "microcosmos: AI persona simulator with rotating Gemini credentials",
		Long:          "microcosmos runs one or more AI personas over a pool of Gemini API keys, rotating around quota and auth failures, with an optional web-search leg for current events.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	wire := func(cmd *cobra.Command) (*app, error) {
		if wired != nil {
			return wired, nil
		}
		built, err := wireApp(cmd.Context(), verbose)
		if err != nil {
			return nil, err
		}
		wired = built
		return wired, nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(wire),
		newStatusCmd(wire),
	)

	return rootCmd
}
