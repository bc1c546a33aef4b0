package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
)

// jsonTimeLayout keeps millisecond resolution; progress ticks arrive every
// 100ms and must stay distinguishable in the log.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: replaceJSONAttr,
	})
}

func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch attr.Key {
		case slog.TimeKey:
			attr.Key = "ts"
			if attr.Value.Kind() == slog.KindTime {
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
			}
			return attr
		case slog.LevelKey:
			attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			return attr
		case slog.SourceKey:
			if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
				attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
			}
			return attr
		}
	}

	switch attr.Value.Kind() {
	case slog.KindFloat64:
		attr.Value = slog.Float64Value(roundMillis(attr.Value.Float64()))
	case slog.KindDuration:
		// Durations are emitted as seconds to line up with media positions.
		attr.Value = slog.Float64Value(roundMillis(attr.Value.Duration().Seconds()))
	case slog.KindTime:
		attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
	}
	return attr
}

// roundMillis trims media positions to millisecond precision. Non-finite
// values are passed through for the encoder to report.
func roundMillis(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*1000) / 1000
}
