package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLogAttrWire(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType string
		wantVal  string
	}{
		{
			name:     "string",
			attr:     slog.String("key", "value"),
			wantType: "string",
			wantVal:  "value",
		},
		{
			name:     "int64",
			attr:     slog.Int64("key", 123),
			wantType: "int64",
			wantVal:  "123",
		},
		{
			name:     "bool",
			attr:     slog.Bool("key", true),
			wantType: "bool",
			wantVal:  "true",
		},
		{
			name:     "float64",
			attr:     slog.Float64("key", 1.23),
			wantType: "float64",
			wantVal:  "1.230000",
		},
		{
			name:     "time",
			attr:     slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantType: "time",
			wantVal:  "2024-01-01T00:00:00Z",
		},
		{
			name:     "duration",
			attr:     slog.Duration("key", 1*time.Hour),
			wantType: "duration",
			wantVal:  "1h0m0s",
		},
		{
			name:     "error",
			attr:     slog.Any("key", errors.New("test error")),
			wantType: "error",
			wantVal:  "test error",
		},
		{
			name:     "nil",
			attr:     slog.Any("key", nil),
			wantType: "any",
			wantVal:  "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := toLogAttrWire(tt.attr)
			assert.Equal(t, tt.attr.Key, wire.Key)
			assert.Equal(t, tt.wantType, wire.Type)
			assert.Equal(t, tt.wantVal, wire.Value)
		})
	}
}

func TestToLogAttrWire_JSON(t *testing.T) {
	// Test structured object that should be serialized as JSON
	type MyStruct struct {
		Field string `json:"field"`
	}
	obj := MyStruct{Field: "data"}
	attr := slog.Any("key", obj)

	wire := toLogAttrWire(attr)
	assert.Equal(t, "key", wire.Key)
	assert.Equal(t, "json", wire.Type)

	var decoded MyStruct
	err := json.Unmarshal([]byte(wire.Value), &decoded)
	require.NoError(t, err)
	assert.Equal(t, obj, decoded)
}

func TestToLogAttrWire_LogValuer(t *testing.T) {
	// Test types that implement LogValuer
	attr := slog.Any("key", logValuer{val: "resolved"})
	wire := toLogAttrWire(attr)

	assert.Equal(t, "key", wire.Key)
	assert.Equal(t, "string", wire.Type)
	assert.Equal(t, "resolved", wire.Value)
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestNewHandler(t *testing.T) {
	t.Run("text by default at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewHandler(&buf))

		assert.False(t, logger.Enabled(context.TODO(), slog.LevelDebug))
		logger.Info("loaded", "module", "FooModule")
		assert.Contains(t, buf.String(), "msg=loaded module=FooModule")
	})

	t.Run("json with level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewHandler(&buf, WithFormat(FormatJSON), WithLevel(slog.LevelDebug), WithSource(true)))

		logger.Debug("probing", "path", "/host/bin/Foo.wasm")
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "probing", decoded["msg"])
		assert.Equal(t, "/host/bin/Foo.wasm", decoded["path"])
		assert.Contains(t, decoded, "source")
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"": slog.LevelInfo, "debug": slog.LevelDebug, " WARN ": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLogMessageRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := slog.NewRecord(ts, slog.LevelWarn, "slow start", 0)
	rec.AddAttrs(
		slog.Int64("attempt", 3),
		slog.Bool("retry", true),
		slog.Duration("elapsed", 2*time.Second),
		slog.String("phase", "init"),
	)

	data, err := json.Marshal(NewLogMessage(rec))
	require.NoError(t, err)

	msg, err := DecodeLogMessage(data)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, msg.SlogLevel())
	assert.Equal(t, "slow start", msg.Message)
	assert.True(t, ts.Equal(msg.Timestamp))

	attrs := msg.SlogAttrs()
	require.Len(t, attrs, 4)
	assert.Equal(t, int64(3), attrs[0].Value.Int64())
	assert.True(t, attrs[1].Value.Bool())
	assert.Equal(t, 2*time.Second, attrs[2].Value.Duration())
	assert.Equal(t, "init", attrs[3].Value.String())
}

func TestDecodeLogMessage(t *testing.T) {
	msg, err := DecodeLogMessage([]byte(`{"level":"bogus","message":"hi","attrs":[{"key":"n","type":"int64","value":"x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, msg.SlogLevel())
	assert.Equal(t, slog.KindString, msg.SlogAttrs()[0].Value.Kind())

	_, err = DecodeLogMessage([]byte("not json"))
	assert.Error(t, err)
}
