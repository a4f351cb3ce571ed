package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyFingerprint = "fingerprint"
	KeyFormat      = "format"
	KeyArtifact    = "artifact"
	KeyIdentifier  = "identifier"
	KeyPath        = "path"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Fingerprint(fp string) slog.Attr { return slog.String(KeyFingerprint, fp) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Artifact(path string) slog.Attr  { return slog.String(KeyArtifact, path) }
func Identifier(id string) slog.Attr  { return slog.String(KeyIdentifier, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
