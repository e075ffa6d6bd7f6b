// Package notify pushes progress and approval-gate events to the messaging
// gateway that fronts the requester (chat bot, web client).
package notify

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/rpc/jsonrpc"
	"net/url"
	"strings"
	"time"

	"github.com/reelcast/orchestrator/internal/domain"
)

// Notifier delivers user-facing events. Implementations must tolerate an
// unreachable gateway; delivery is best effort.
type Notifier interface {
	Push(ownerID string, eventType domain.EventType, event map[string]interface{}) error
}

// Client pushes events over JSON-RPC to the gateway.
type Client struct {
	addr    string
	timeout time.Duration
}

// defaultPushTimeout bounds dial and call when no timeout is configured.
// Pushes are small and best effort; they must never hold a run hostage.
const defaultPushTimeout = 5 * time.Second

// NewClient creates a notifier for the given gateway address. An empty
// address yields a no-op client; a non-positive timeout falls back to the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &Client{
		addr:    resolveRPCAddr(baseURL),
		timeout: timeout,
	}
}

var _ Notifier = (*Client)(nil)

// PushRequest is the request body for event delivery.
type PushRequest struct {
	OwnerID string                 `json:"owner_id"`
	Type    string                 `json:"type"`
	Event   map[string]interface{} `json:"event"`
}

// PushResponse is the delivery acknowledgement.
type PushResponse struct {
	OK        bool `json:"ok"`
	Delivered bool `json:"delivered"`
}

// Push delivers one event to the gateway.
func (c *Client) Push(ownerID string, eventType domain.EventType, event map[string]interface{}) error {
	if c.addr == "" {
		return nil
	}

	req := &PushRequest{
		OwnerID: ownerID,
		Type:    string(eventType),
		Event:   event,
	}

	var resp PushResponse
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.call(ctx, "Gateway.PushEvent", req, &resp); err != nil {
		return fmt.Errorf("failed to push event to gateway: %w", err)
	}
	if !resp.OK {
		log.Printf("WARN: gateway rpc returned ok=false (delivered=%v)", resp.Delivered)
		return fmt.Errorf("gateway rpc returned ok=false")
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, args, reply interface{}) error {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	_ = conn.SetDeadline(deadline)

	client := jsonrpc.NewClient(conn)
	call := client.Go(method, args, reply, nil)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-call.Done:
		return call.Error
	}
}

// resolveRPCAddr accepts either a bare host:port or a URL and returns the
// dialable address.
func resolveRPCAddr(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return raw
}
