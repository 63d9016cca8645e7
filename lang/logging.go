package lang

import "log/slog"

// lazy defers building a log attribute value until a handler records it.
type lazy func() string

// LogValue implements slog.LogValuer.
func (f lazy) LogValue() slog.Value { return slog.StringValue(f()) }

func nodeAttr(key string, n Node) slog.Attr {
	return slog.Any(key, lazy(func() string {
		if n == nil {
			return ""
		}

		return n.String()
	}))
}
