package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRule       = "rule"
	KeyPattern    = "pattern"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyVersion    = "version"
	KeyTag        = "tag"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Rule(i int) slog.Attr            { return slog.Int(KeyRule, i) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
