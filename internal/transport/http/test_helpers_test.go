package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/shinehub-server/internal/auth"
	"github.com/vovakirdan/shinehub-server/internal/config"
	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/proto"
	"github.com/vovakirdan/shinehub-server/internal/service/moderation"
	"github.com/vovakirdan/shinehub-server/internal/service/notices"
	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/store/sqlite"
	"github.com/vovakirdan/shinehub-server/internal/upload"
)

const testInviteCode = "SHINE2026"

// testEnv is a fully wired server backed by an in-memory store.
type testEnv struct {
	t      *testing.T
	store  *sqlite.SQLiteStore
	hub    *core.Hub
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()
	cfg.MaxUploadBytes = 1 << 20

	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}, auth.Options{InviteCode: testInviteCode, AdminUsername: "admin"})

	hub := core.NewHub(authService, st, st, &logger, cfg.SendBuffer)

	uploads, err := upload.New(cfg.UploadDir, cfg.MaxUploadBytes)
	require.NoError(t, err)

	// Serve the same handler the production server uses.
	server := NewServer(hub, Services{
		Auth:       authService,
		Users:      st,
		Social:     social.New(st),
		Notices:    notices.New(st),
		Moderation: moderation.New(st, hub, &logger),
		Uploads:    uploads,
	}, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{t: t, store: st, hub: hub, server: ts}
}

type testUser struct {
	ID    int64
	Token string
}

func (e *testEnv) register(username, class, section string) testUser {
	e.t.Helper()

	var resp AuthResponse
	status := e.do(stdhttp.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:       strings.ToUpper(username[:1]) + username[1:],
		Class:      class,
		Section:    section,
		Username:   username,
		Password:   "secret123",
		InviteCode: testInviteCode,
	}, &resp)
	require.Equal(e.t, stdhttp.StatusOK, status)
	require.NotEmpty(e.t, resp.Token)
	return testUser{ID: resp.User.ID, Token: resp.Token}
}

// do sends a JSON request and decodes the response into out when out is non-nil.
func (e *testEnv) do(method, path, token string, body, out any) int {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := stdhttp.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token, out)
}

func (e *testEnv) send(req *stdhttp.Request, token string, out any) int {
	e.t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == stdhttp.StatusOK {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) dial() *websocket.Conn {
	e.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(e.server.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

// connect dials and authenticates, returning once the server has registered the connection.
func (e *testEnv) connect(u testUser) *websocket.Conn {
	e.t.Helper()

	before, _ := e.hub.Registry().Get(u.ID)
	conn := e.dial()
	writeFrame(e.t, conn, proto.Inbound{Type: proto.InboundTypeAuth, Token: u.Token})
	require.Eventually(e.t, func() bool {
		current, ok := e.hub.Registry().Get(u.ID)
		return ok && current != before
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, v))
}

func writeRaw(t *testing.T, conn *websocket.Conn, data string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(data)))
}

func sendPrivate(t *testing.T, conn *websocket.Conn, receiverID int64, text string) {
	t.Helper()
	writeFrame(t, conn, proto.Inbound{
		Type:        proto.InboundTypeMessage,
		MessageType: proto.MessageTypePrivate,
		ReceiverID:  &receiverID,
		Content:     &text,
	})
}

func readRaw(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	return data
}

func readMessage(t *testing.T, conn *websocket.Conn) *proto.Message {
	t.Helper()

	var out proto.Outbound
	require.NoError(t, json.Unmarshal(readRaw(t, conn), &out))
	require.Equal(t, proto.OutboundTypeNewMessage, out.Type)
	require.NotNil(t, out.Message)
	return out.Message
}

// readCloseStatus reads until the server closes the connection.
func readCloseStatus(t *testing.T, conn *websocket.Conn) websocket.StatusCode {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return websocket.CloseStatus(err)
		}
	}
}
