package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"speechsync/internal/commentary"
	"speechsync/internal/timeline"
)

func newTimelineCommand() *cobra.Command {
	var input commentaryInput
	var duration float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "timeline",
		Short:       "Estimate when each section is narrated",
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				return errors.New("--duration must be positive")
			}
			raw, err := input.read(cmd)
			if err != nil {
				return err
			}
			sections := commentary.Segment(raw)
			tl := timeline.Build(sections, duration, input.title)
			if jsonOut {
				return writeJSON(cmd, tl)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTimeline(tl, sections))
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Narration length in seconds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderTimeline(tl timeline.Timeline, sections []commentary.Section) string {
	rows := [][]string{{"Intro", formatClock(0), "", formatClock(tl.IntroDuration)}}
	for _, e := range tl.Entries {
		rows = append(rows, []string{
			sectionTitle(sections, e.Index),
			formatClock(e.Start),
			formatClock(e.ContentStart),
			formatClock(e.End),
		})
	}
	if !tl.Empty() {
		last := tl.Entries[len(tl.Entries)-1]
		rows = append(rows, []string{"Outro", formatClock(last.End), "", formatClock(tl.Duration)})
	}
	caption := fmt.Sprintf("%.4f s per weight unit", tl.TimePerWeight)
	return renderTable([]tableColumn{
		{header: "Part"},
		{header: "Start", align: alignRight},
		{header: "Content", align: alignRight},
		{header: "End", align: alignRight},
	}, rows, caption)
}
