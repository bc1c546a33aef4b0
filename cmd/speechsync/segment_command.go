package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speechsync/internal/commentary"
	"speechsync/internal/speech"
)

type segmentRow struct {
	Index   int     `json:"index"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Weight  float64 `json:"weight"`
}

func newSegmentCommand() *cobra.Command {
	var input commentaryInput
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "segment",
		Short:       "Split commentary into its three sections",
		Annotations: offline,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := input.read(cmd)
			if err != nil {
				return err
			}
			sections := commentary.Segment(raw)
			rows := make([]segmentRow, len(sections))
			for i, s := range sections {
				rows[i] = segmentRow{
					Index:   i,
					Title:   s.Title,
					Content: s.Content,
					Weight:  speech.HeaderWeight(s.Title) + speech.Weight(s.Content),
				}
			}
			if jsonOut {
				return writeJSON(cmd, rows)
			}

			mode := "paragraph fallback"
			if commentary.HasStructuredHeaders(raw) {
				mode = "structured headers"
			}
			tableRows := make([][]string, len(rows))
			for i, r := range rows {
				tableRows[i] = []string{
					strconv.Itoa(r.Index + 1),
					r.Title,
					strconv.Itoa(len([]rune(r.Content))),
					fmt.Sprintf("%.1f", r.Weight),
					r.Content,
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{header: "#", align: alignRight},
				{header: "Section"},
				{header: "Chars", align: alignRight},
				{header: "Weight", align: alignRight},
				{header: "Content", maxWidth: 60},
			}, tableRows, "Segmented by "+mode))
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
