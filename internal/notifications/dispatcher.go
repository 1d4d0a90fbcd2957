package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/kofiadjei/sleekline-backend/pkg/config"
	"github.com/kofiadjei/sleekline-backend/pkg/enums"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

// Message is the envelope posted to the notifications endpoint.
type Message struct {
	Type    enums.NotificationType `json:"type"`
	Payload map[string]any         `json:"payload"`
}

// Dispatcher is the best-effort side channel for order and contact events.
// Dispatch never blocks the caller and never surfaces failures; they land in
// the log sink only.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
	Flush()
}

type dispatcher struct {
	endpoint string
	http     *http.Client
	logg     *logger.Logger
	wg       sync.WaitGroup
}

// NewDispatcher builds the HTTP dispatcher. An empty endpoint yields a
// dispatcher that only logs, useful in dev.
func NewDispatcher(cfg config.NotificationsConfig, logg *logger.Logger) *dispatcher {
	return &dispatcher{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		http:     &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
	}
}

// Dispatch fires the notification on its own goroutine. The spawned send is
// detached from the request's cancellation so an early client disconnect does
// not kill the side channel.
func (d *dispatcher) Dispatch(ctx context.Context, msg Message) {
	sendCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.send(sendCtx, msg); err != nil {
			if d.logg != nil {
				d.logg.Error(sendCtx, "notification.dispatch_failed", err)
			}
		}
	}()
}

// Flush waits for in-flight dispatches, used on shutdown and in tests.
func (d *dispatcher) Flush() {
	d.wg.Wait()
}

func (d *dispatcher) send(ctx context.Context, msg Message) error {
	if d.endpoint == "" {
		if d.logg != nil {
			ctx = d.logg.WithFields(ctx, map[string]any{"type": string(msg.Type)})
			d.logg.Info(ctx, "notification.skipped (no endpoint configured)")
		}
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return multierr.Append(fmt.Errorf("marshal notification %s", msg.Type), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return multierr.Append(fmt.Errorf("build notification request %s", msg.Type), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return multierr.Append(fmt.Errorf("post notification %s", msg.Type), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification %s rejected with status %d", msg.Type, resp.StatusCode)
	}
	return nil
}
