package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyFolder     = "folder"
	KeyCategory   = "category"
	KeyKind       = "kind"
	KeyTask       = "task"
	KeyAction     = "action"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Folder(f string) slog.Attr       { return slog.String(KeyFolder, f) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Task(name string) slog.Attr      { return slog.String(KeyTask, name) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
