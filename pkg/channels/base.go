package channels

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/mlutsenko/voiceforge/pkg/bus"
	"github.com/mlutsenko/voiceforge/pkg/logger"
)

// Channel is a transport that feeds user events into the bus and delivers
// outbound messages back to the user.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
	IsRunning() bool
}

type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowList []string
	running   atomic.Bool
}

func NewBaseChannel(name string, msgBus *bus.MessageBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		name:      name,
		bus:       msgBus,
		allowList: allowList,
	}
}

func (c *BaseChannel) Name() string {
	return c.name
}

func (c *BaseChannel) IsRunning() bool {
	return c.running.Load()
}

func (c *BaseChannel) setRunning(running bool) {
	c.running.Store(running)
}

// IsAllowed reports whether senderID passes the allowlist. An empty list
// allows everyone. Both sides may be compound "id|username" values; an
// entry matches if any of its parts equals any part of the sender.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	senderParts := splitIdentity(senderID)
	for _, allowed := range c.allowList {
		for _, ap := range splitIdentity(allowed) {
			for _, sp := range senderParts {
				if ap == sp {
					return true
				}
			}
		}
	}
	return false
}

func splitIdentity(id string) []string {
	parts := strings.Split(id, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimPrefix(strings.TrimSpace(p), "@")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HandleEvent stamps the channel name and publishes the event, dropping
// senders the allowlist rejects.
func (c *BaseChannel) HandleEvent(msg bus.InboundMessage) {
	if !c.IsAllowed(msg.SenderID) {
		logger.DebugCF(c.name, "Event rejected by allowlist", map[string]any{
			"sender_id": msg.SenderID,
		})
		return
	}

	msg.Channel = c.name
	c.bus.PublishInbound(msg)
}
