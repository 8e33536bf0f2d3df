package logger

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by all encoder instances
var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgCyan),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
	zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
}

// prettyEncoder prints "<time> <LEVEL> <logger> <msg>" followed by the entry fields as indented JSON.
type prettyEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	enc := &prettyEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig),
		pool:    buffer.NewPool(),
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

// Clone keeps derived loggers on the pretty encoder.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone(), pool: e.pool}
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	raw, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer raw.Free()

	var payload map[string]any
	if err = json.Unmarshal(raw.Bytes(), &payload); err != nil {
		return nil, err
	}
	for _, k := range []string{messageKey, levelKey, nameKey, timeKey} {
		delete(payload, k)
	}

	level := entry.Level.CapitalString()
	if c, ok := levelColors[entry.Level]; ok {
		level = c.Sprint(level)
	}

	buf := e.pool.Get()
	buf.AppendString(entry.Time.Format("15:04:05.000"))
	buf.AppendByte(' ')
	buf.AppendString(level)
	if entry.LoggerName != "" {
		buf.AppendString(" [")
		buf.AppendString(entry.LoggerName)
		buf.AppendByte(']')
	}
	if msg := strings.TrimSpace(entry.Message); msg != "" {
		buf.AppendByte(' ')
		buf.AppendString(msg)
	}

	if len(payload) > 0 {
		indented, marshalErr := json.MarshalIndent(payload, "", "  ")
		if marshalErr == nil {
			buf.AppendByte('\n')
			buf.AppendString(string(indented))
		}
	}
	buf.AppendByte('\n')

	return buf, nil
}
