package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facepulse/facepulse/internal/domain"
	"github.com/facepulse/facepulse/internal/tracking"
	"github.com/facepulse/facepulse/internal/websocket"
)

// newOverlayTestStack wires a real engine and hub behind the HTTP server, so
// the test exercises the full frame → vote → debounce → push path.
func newOverlayTestStack(t *testing.T) (*tracking.Engine, *httptest.Server) {
	t.Helper()

	engine := tracking.NewEngine(clockwork.NewFakeClock(), 8, time.Minute)
	hub := websocket.NewHub()
	engine.SetBroadcaster(hub)
	engine.Start()
	t.Cleanup(func() {
		engine.Stop()
		hub.Stop()
	})

	srv := NewServer(testConfig(), engine, hub)
	httpSrv := httptest.NewServer(srv.echo)
	t.Cleanup(httpSrv.Close)

	return engine, httpSrv
}

func dialOverlay(t *testing.T, httpSrv *httptest.Server, id uuid.UUID) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws/overlay/" + id.String()
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readOverlayUpdate(t *testing.T, conn *ws.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update map[string]any
	require.NoError(t, json.Unmarshal(msg, &update))
	return update
}

func TestWebSocket_OverlayReceivesEmotionChanges(t *testing.T) {
	engine, httpSrv := newOverlayTestStack(t)
	id := engine.CreateSession()

	conn := dialOverlay(t, httpSrv, id)

	// Fresh session: the initial state push says we are still searching.
	initial := readOverlayUpdate(t, conn)
	assert.Equal(t, "searching", initial["status"])

	outcome, err := engine.ProcessFrame(id, domain.Snapshot{
		"mouthSmileLeft":  0.9,
		"mouthSmileRight": 0.9,
	})
	require.NoError(t, err)
	require.True(t, outcome.Changed)

	update := readOverlayUpdate(t, conn)
	assert.Equal(t, "happy", update["emotion"])
	assert.Equal(t, "active", update["status"])
}

func TestWebSocket_LateJoinerGetsCurrentState(t *testing.T) {
	engine, httpSrv := newOverlayTestStack(t)
	id := engine.CreateSession()

	_, err := engine.ProcessFrame(id, domain.Snapshot{
		"mouthSmileLeft":  0.9,
		"mouthSmileRight": 0.9,
	})
	require.NoError(t, err)

	conn := dialOverlay(t, httpSrv, id)

	initial := readOverlayUpdate(t, conn)
	assert.Equal(t, "happy", initial["emotion"])
	assert.Equal(t, "active", initial["status"])
}

func TestWebSocket_UnknownSession(t *testing.T) {
	_, httpSrv := newOverlayTestStack(t)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws/overlay/" + uuid.New().String()
	_, resp, err := ws.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_InvalidUUID(t *testing.T) {
	srv := newTestServer(t, &mockEngine{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws/overlay/nonsense", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uuid")
	c.SetParamValues("nonsense")

	require.NoError(t, srv.handleWebSocket(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
