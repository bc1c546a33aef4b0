package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"speechsync/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var player string
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent speechsync log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return logs.Tail(cmd.Context(), cfg.LogFilePath(), logs.TailOptions{
				Lines:  lines,
				Follow: follow,
				Poll:   poll,
				Match:  strings.TrimSpace(player),
			}, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "F", false, "Keep printing new lines as they are written")
	cmd.Flags().StringVar(&player, "player", "", "Only show lines mentioning this player or correlation id")
	cmd.Flags().DurationVar(&poll, "poll", 0, "Follow polling interval")
	return cmd
}
