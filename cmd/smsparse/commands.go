package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/NgigiN/smswallet/internal/categorize"
	"github.com/NgigiN/smswallet/internal/logger"
	"github.com/NgigiN/smswallet/internal/smsparse"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var (
		sender     string
		receivedAt int64
		tz         string
		rulesPath  string
		batch      bool
	)

	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Parse an SMS into a JSON record",
		Long: `Parse one SMS given as arguments, or read it from stdin.
With --batch every non-empty stdin line is parsed as its own message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
			rules := categorize.DefaultRules()
			if rulesPath != "" {
				if rules, err = categorize.LoadRules(rulesPath); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("received-at") {
				receivedAt = time.Now().UnixMilli()
			}

			ctx := cmd.Context()
			p := smsparse.New(
				smsparse.WithSuggester(categorize.NewKeywordSuggester(rules)),
				smsparse.WithLocation(loc),
				smsparse.WithLogger(logger.FromContext(ctx)),
			)

			if batch {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				msgs := make([]smsparse.Message, 0, len(lines))
				for _, line := range lines {
					msgs = append(msgs, smsparse.Message{Text: line, Sender: sender, ReceivedAt: receivedAt})
				}
				return writeJSON(cmd.OutOrStdout(), p.ParseBatch(ctx, msgs))
			}

			text, err := messageText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p.Parse(ctx, text, sender, receivedAt))
		},
	}

	cmd.Flags().StringVarP(&sender, "sender", "s", "", "sender header, e.g. VM-HDFCBK")
	cmd.Flags().Int64Var(&receivedAt, "received-at", 0, "receipt time in milliseconds since epoch (default now)")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "timezone receipt times are reported in")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML category rules file (default built-in rules)")
	cmd.Flags().BoolVar(&batch, "batch", false, "parse each stdin line as a separate message")

	return cmd
}

func gateCmd() *cobra.Command {
	var sender string

	cmd := &cobra.Command{
		Use:   "gate [text...]",
		Short: "Report whether an SMS is a financial transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := messageText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if smsparse.IsFinancial(text, sender) {
				fmt.Fprintln(cmd.OutOrStdout(), "financial")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not financial")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sender, "sender", "s", "", "sender header, e.g. VM-HDFCBK")
	return cmd
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List recognized providers and their sender aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tALIASES")
			for _, p := range smsparse.Providers {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, strings.Join(p.Aliases, ", "))
			}
			return w.Flush()
		},
	}
}

func messageText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no message text given")
	}
	return text, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages from stdin: %w", err)
	}
	return lines, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
