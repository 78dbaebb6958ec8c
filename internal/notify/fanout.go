package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Fanout delivers one payload to many destinations, each attempt isolated
// from the others. One attempt per destination, no retries; retry policy is
// an operational concern outside this package.
type Fanout struct {
	client  *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// NewFanout builds a fanout with a per-destination delivery timeout.
// client may be nil, in which case a plain http.Client is used.
func NewFanout(timeout time.Duration, log *slog.Logger, client *http.Client) *Fanout {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fanout{client: client, timeout: timeout, log: log}
}

// Deliver posts the payload to every destination concurrently and returns
// how many acknowledged with a 2xx. A failed or hung destination never
// delays or fails the others: each attempt carries its own timeout, and
// failures are logged here rather than propagated.
func (f *Fanout) Deliver(ctx context.Context, destinations []Destination, payload WebhookPayload) int {
	if len(destinations) == 0 {
		return 0
	}

	body, err := json.Marshal(payload)
	if err != nil {
		f.log.Error("notification payload marshal failed", "err", err)
		return 0
	}

	var ok atomic.Int64
	var wg sync.WaitGroup
	for _, d := range destinations {
		wg.Add(1)
		go func(d Destination) {
			defer wg.Done()
			if err := f.deliverOne(ctx, d, body); err != nil {
				f.log.Error("notification delivery failed", "channel", d.Channel, "err", err)
				return
			}
			ok.Add(1)
			f.log.Info("notification delivered", "channel", d.Channel)
		}(d)
	}
	wg.Wait()

	return int(ok.Load())
}

func (f *Fanout) deliverOne(ctx context.Context, d Destination, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
