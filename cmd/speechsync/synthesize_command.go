package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"speechsync/internal/audioprobe"
	"speechsync/internal/deps"
	"speechsync/internal/fileutil"
	"speechsync/internal/logging"
	"speechsync/internal/services"
	"speechsync/internal/textutil"
	"speechsync/internal/tts"
)

func newSynthesizeCommand(ctx *commandContext) *cobra.Command {
	var input commentaryInput
	var outPath string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Narrate commentary to an audio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := input.readNonEmpty(cmd)
			if err != nil {
				return err
			}
			target := strings.TrimSpace(outPath)
			if target == "" {
				target = textutil.AudioFileName(input.title, "mp3")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reqCtx, logger, err := ctx.requestContext(cmd.Context())
			if err != nil {
				return err
			}
			synth, cleanup, err := ctx.synthesizer(cfg, logger, !noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			audio, err := synth.Synthesize(reqCtx, raw, input.title)
			if err != nil && services.Retryable(err) && reqCtx.Err() == nil {
				logging.WarnWithContext(logger, "synthesis failed, retrying once", "synthesis_retry",
					logging.Error(err),
					logging.String(logging.FieldImpact, "narration delayed"),
				)
				audio, err = synth.Synthesize(reqCtx, raw, input.title)
			}
			if err != nil {
				logger.Error("synthesis failed", logging.Error(err))
				return fmt.Errorf("synthesize: %s", tts.UserMessage(err))
			}
			if err := fileutil.WriteFileVerified(target, audio, 0o644); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s to %s\n", humanize.Bytes(uint64(len(audio))), target)

			if !deps.Usable(reqCtx, deps.FFprobe(cfg.Playback.FFprobeBinary)) {
				return nil
			}
			result, err := audioprobe.Inspect(reqCtx, cfg.Playback.FFprobeBinary, target)
			if err != nil {
				logging.WarnWithContext(logger, "duration probe failed", "audio_probe_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "duration not reported"),
				)
				return nil
			}
			if duration := result.DurationSeconds(); duration > 0 {
				fmt.Fprintf(out, "Duration: %s\n", formatClock(duration))
			}
			if bitRate := result.BitRate(); bitRate > 0 {
				fmt.Fprintf(out, "Bit rate: %s/s\n", humanize.SI(float64(bitRate), "b"))
			}
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination audio file (defaults to a name derived from --title)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the audio cache")
	return cmd
}
