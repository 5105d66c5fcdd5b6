package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "wordle",
		Short: "Interactive client for the Wordle game server",
		Long: `wordle is an interactive client for the Wordle game server.

It opens one connection to the server and reads commands like
register(alice,secret), login(alice,secret), playWORDLE and sendWord(word).
Shared game results arrive over the notification multicast group.`,
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := Dial(cfg.ServerHost, cfg.ServerPort)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			// Sharing still works without the listener, so a failed join
			// only disables showMeSharing.
			listener, err := Join(cfg.MulticastAddr, cfg.MulticastPort)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
			} else {
				defer func() { _ = listener.Close() }()
			}

			repl := NewREPL(cfg, client, listener, cmd.OutOrStdout())
			return repl.Run(cmd.InOrStdin())
		},
	}

	rootCmd.Flags().StringVar(&cfg.ServerHost, "server", cfg.ServerHost, "Server host (env: WORDLE_SERVER)")
	rootCmd.Flags().IntVar(&cfg.ServerPort, "port", cfg.ServerPort, "Server port (env: WORDLE_PORT)")
	rootCmd.Flags().IntVar(&cfg.NotifyPort, "notify-port", cfg.NotifyPort, "Server UDP notification port (env: WORDLE_NOTIFY_PORT)")
	rootCmd.Flags().StringVar(&cfg.MulticastAddr, "multicast-addr", cfg.MulticastAddr, "Notification multicast group (env: WORDLE_MULTICAST_ADDR)")
	rootCmd.Flags().IntVar(&cfg.MulticastPort, "multicast-port", cfg.MulticastPort, "Notification multicast port (env: WORDLE_MULTICAST_PORT)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
