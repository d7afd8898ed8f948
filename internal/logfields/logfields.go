package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySite     = "site"
	KeyPath     = "path"
	KeyTarget   = "target"
	KeyMode     = "mode"
	KeyTopology = "topology"
	KeyKind     = "kind"
	KeyCount    = "count"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func Site(id string) slog.Attr        { return slog.String(KeySite, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Topology(t string) slog.Attr     { return slog.String(KeyTopology, t) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
