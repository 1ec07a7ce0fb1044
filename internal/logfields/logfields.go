// Package logfields holds canonical slog attribute keys so every package logs
// the same names.
package logfields

import "log/slog"

const (
	KeyIdentifier = "identifier"
	KeyLink       = "link"
	KeyAsset      = "asset"
	KeyKind       = "kind"
	KeyPhase      = "phase"
	KeyCount      = "count"
	KeyWorkers    = "workers"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Identifier(id string) slog.Attr  { return slog.String(KeyIdentifier, id) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func Asset(name string) slog.Attr     { return slog.String(KeyAsset, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Phase(p string) slog.Attr        { return slog.String(KeyPhase, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
