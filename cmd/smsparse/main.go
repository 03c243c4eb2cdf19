package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/NgigiN/smswallet/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smsparse",
		Short: "Parse bank and wallet SMS notifications",
		Long: `smsparse turns bank, card, UPI and wallet SMS notifications into
structured transaction records, the same way the Discord bot does.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			log, err := logger.New(level)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(parseCmd())
	root.AddCommand(gateCmd())
	root.AddCommand(providersCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
