// Package rlog wraps a zerolog.Logger keyed by debug topic, replacing
// the teacher's ad hoc `if conf.Debug("tokens") { fmt.Printf(...) }`
// traces (seen throughout parse/parse.go and run/run.go) with a single
// structured sink while keeping the teacher's per-topic gating idiom:
// Logger.Debug only emits when the backing config.Config has that topic
// enabled.
package rlog

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/rill-lang/rill/internal/config"
)

// Logger gates zerolog output by the same topic strings
// config.Config.Debug already uses: "lex", "parse", "eval", "gc".
type Logger struct {
	z    zerolog.Logger
	conf *config.Config
}

// New builds a Logger writing to w, gated by conf's debug topics.
func New(conf *config.Config, w io.Writer) *Logger {
	return &Logger{z: zerolog.New(w).With().Timestamp().Logger(), conf: conf}
}

// Debug logs msg at debug level with the given key/value pairs, but only
// if topic is enabled in the backing Config.
func (l *Logger) Debug(topic, msg string, kv ...interface{}) {
	if l == nil || !l.conf.Debug(topic) {
		return
	}
	ev := l.z.Debug().Str("topic", topic)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

// Error logs msg at error level unconditionally (topic gating only
// applies to Debug-level traces).
func (l *Logger) Error(msg string, err error) {
	if l == nil {
		return
	}
	l.z.Error().Err(err).Msg(msg)
}
