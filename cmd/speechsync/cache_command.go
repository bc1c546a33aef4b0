package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"speechsync/internal/audiocache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the narration audio cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func openCache(ctx *commandContext) (*audiocache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.AudioCache.Enabled {
		return nil, errors.New("audio cache is disabled (set audio_cache.enabled = true)")
	}
	return audiocache.Open(cfg)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached narrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cached narrations: none")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, entry := range entries {
				title := entry.Title
				if title == "" {
					title = "(untitled)"
				}
				rows[i] = []string{
					entry.Key[:12],
					title,
					strconv.Itoa(entry.TextChars),
					humanize.Bytes(uint64(entry.SizeBytes)),
					strconv.Itoa(entry.Hits),
					humanize.Time(entry.LastUsedAt),
				}
			}
			caption := fmt.Sprintf("%d of %d entries, %s total in %s", stats.Entries, stats.MaxEntries, humanize.Bytes(uint64(stats.TotalBytes)), store.Path())
			fmt.Fprintln(out, renderTable([]tableColumn{
				{header: "Key"},
				{header: "Title", maxWidth: 40},
				{header: "Chars", align: alignRight},
				{header: "Size", align: alignRight},
				{header: "Hits", align: alignRight},
				{header: "Last Used"},
			}, rows, caption))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached narration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached narration(s)\n", removed)
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop the least recently used narrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return errors.New("--keep must not be negative")
			}
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached narration(s), kept at most %d\n", removed, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "Number of most recently used narrations to keep")
	return cmd
}
