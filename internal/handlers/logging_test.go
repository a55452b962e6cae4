package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	infragin "github.com/barjames/funeral-planner/infrastructure/gin"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/handlers"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level  string
	msg    string
	fields []infralogger.Field
}

type logSink struct {
	mu      sync.Mutex
	entries []logEntry
}

// recordingLogger keeps every entry, including fields attached through With.
type recordingLogger struct {
	sink   *logSink
	fields []infralogger.Field
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{sink: &logSink{}}
}

func (l *recordingLogger) record(level, msg string, fields []infralogger.Field) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	all := append(append([]infralogger.Field{}, l.fields...), fields...)
	l.sink.entries = append(l.sink.entries, logEntry{level: level, msg: msg, fields: all})
}

func (l *recordingLogger) Debug(msg string, fields ...infralogger.Field) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(msg string, fields ...infralogger.Field) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields ...infralogger.Field) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(msg string, fields ...infralogger.Field) {
	l.record("error", msg, fields)
}

func (l *recordingLogger) Fatal(msg string, fields ...infralogger.Field) {
	l.record("fatal", msg, fields)
}

func (l *recordingLogger) Sync() error {
	return nil
}

func (l *recordingLogger) With(fields ...infralogger.Field) infralogger.Logger {
	merged := append(append([]infralogger.Field{}, l.fields...), fields...)
	return &recordingLogger{sink: l.sink, fields: merged}
}

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	for _, e := range l.sink.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func fieldValues(fields []infralogger.Field, key string) []string {
	var out []string
	for _, f := range fields {
		if f.Key == key {
			out = append(out, f.String)
		}
	}
	return out
}

func TestErrorLogCarriesRequestID(t *testing.T) {
	t.Parallel()

	log := newRecordingLogger()
	svc := &stubService{listErr: fmt.Errorf("%w: connection reset", service.ErrStorage)}
	content := handlers.NewContentHandler(svc, infralogger.NewNop())

	r := gin.New()
	r.Use(infragin.RequestIDLoggerMiddleware(log))
	r.GET("/api/content/:category", content.List)

	req := httptest.NewRequest(http.MethodGet, "/api/content/readings", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	entry, ok := log.find("Request failed")
	require.True(t, ok, "error is logged through the request-scoped logger")
	assert.Equal(t, "error", entry.level)
	assert.Equal(t, []string{"req-42"}, fieldValues(entry.fields, infragin.RequestIDKey))
}

func TestDebugLogUsesRequestLogger(t *testing.T) {
	t.Parallel()

	log := newRecordingLogger()
	content := handlers.NewContentHandler(&stubService{}, infralogger.NewNop())

	r := gin.New()
	r.Use(infragin.RequestIDLoggerMiddleware(log))
	r.POST("/api/content/:category", content.Create)

	w := do(r, http.MethodPost, "/api/content/poems", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)

	entry, ok := log.find("Invalid request body")
	require.True(t, ok)
	assert.Len(t, fieldValues(entry.fields, infragin.RequestIDKey), 1)
}
