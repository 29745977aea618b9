package core

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level logrus.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	logrus.SetOutput(&buf)
	logrus.SetLevel(level)
	t.Cleanup(func() {
		logrus.SetOutput(orig)
		logrus.SetLevel(origLevel)
	})
	return &buf
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	logs := captureLogs(t, logrus.DebugLevel)

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/calculate?a=1", nil))

	out := logs.String()
	assert.Contains(t, out, "request served")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/calculate")
}

func TestRequestLogger_WarnsOnServerErrors(t *testing.T) {
	logs := captureLogs(t, logrus.InfoLevel)

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, strings.Contains(logs.String(), "request failed"))
}

func TestRequestLogger_AllowsWebsocketUpgrade(t *testing.T) {
	lr := NewLiveReloader()
	server := httptest.NewServer(RequestLogger(http.HandlerFunc(lr.Handler)))
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):], nil)
	require.NoError(t, err)
	defer ws.Close()

	time.Sleep(50 * time.Millisecond)
	lr.BroadcastReload()

	_ = ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusNotFound, rec.Status())
}

func TestConfigureLogging_SetsLevel(t *testing.T) {
	orig := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(orig) })

	ConfigureLogging(Config{DebugLogs: true})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	ConfigureLogging(Config{})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
