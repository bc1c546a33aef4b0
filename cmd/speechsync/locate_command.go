package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"speechsync/internal/commentary"
	"speechsync/internal/progress"
	"speechsync/internal/timeline"
)

func newLocateCommand() *cobra.Command {
	var input commentaryInput
	var duration, at float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "locate",
		Short:       "Show the sentence and word narrated at a playback position",
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return errors.New("--duration must be positive")
			}
			if at < 0 {
				return errors.New("--at must not be negative")
			}
			raw, err := input.read(cmd)
			if err != nil {
				return err
			}
			sections := commentary.Segment(raw)
			tl := timeline.Build(sections, duration, input.title)
			highlight := progress.Resolve(progress.Map(at, tl), sections)
			if jsonOut {
				return writeJSON(cmd, highlight)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Position: %s / %s\n", formatClock(at), formatClock(duration))
			fmt.Fprintf(out, "Reading:  %s\n", describePosition(highlight.Progress, sections))
			if highlight.Active() {
				fmt.Fprintf(out, "Sentence: %d, word %d\n", highlight.Position.Sentence+1, highlight.Position.Word+1)
				fmt.Fprintf(out, "Text:     %s\n", renderHighlight(highlight, shouldColorize(out)))
			}
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Narration length in seconds")
	cmd.Flags().Float64Var(&at, "at", 0, "Playback position in seconds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
