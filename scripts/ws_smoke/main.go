package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/shinehub-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

func run() error {
	base := flag.String("base", "http://localhost:3000", "server base URL")
	user := flag.String("user", "tester", "username to log in with")
	password := flag.String("password", "", "password")
	to := flag.Int64("to", 0, "receiver id (defaults to yourself)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := login(ctx, *base, *user, *password)
	if err != nil {
		return err
	}
	receiver := *to
	if receiver == 0 {
		receiver = session.User.ID
	}

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeAuth, Token: session.Token}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{
		Type:        proto.InboundTypeMessage,
		MessageType: proto.MessageTypePrivate,
		ReceiverID:  &receiver,
		Content:     text,
	}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if outbound.Type != proto.OutboundTypeNewMessage || outbound.Message == nil {
			continue
		}

		msg := outbound.Message
		if msg.SenderID != session.User.ID {
			fmt.Printf("Incoming: id=%d from=%s\n", msg.ID, msg.SenderName)
			continue
		}
		content := ""
		if msg.Content != nil {
			content = *msg.Content
		}
		fmt.Printf("Echo: id=%d type=%s text=%q at=%s\n", msg.ID, msg.Type, content, msg.CreatedAt.Format(time.RFC3339))
		return nil
	}
}

func login(ctx context.Context, base, username, password string) (*loginResponse, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("marshal login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	return &out, nil
}
