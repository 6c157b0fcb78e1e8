// Package notify delivers desktop notifications through an HTTP
// bridge. The dispatcher is a pure collaborator: it never touches the
// entity store.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jarosser06/mosaic/internal/apperr"
)

const (
	attemptTimeout = 5 * time.Second
	maxAttempts    = 3
	initialBackoff = time.Second
)

// Notification is the bridge payload.
type Notification struct {
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Sound    string         `json:"sound,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result reports how a dispatch went.
type Result struct {
	Delivered bool `json:"delivered"`
	Attempts  int  `json:"attempts"`
}

// Dispatcher posts notifications to the bridge with bounded retry.
type Dispatcher struct {
	bridgeURL    string
	enabled      bool
	defaultSound string
	client       *http.Client
	logger       *log.Logger
	backoffBase  time.Duration
}

// Options configure a Dispatcher.
type Options struct {
	BridgeURL    string
	Enabled      bool
	DefaultSound string
	Logger       *log.Logger

	// Client overrides the HTTP client, mainly for tests. The
	// per-attempt timeout is applied regardless.
	Client *http.Client

	// InitialBackoff overrides the first retry delay; zero keeps the
	// default. Tests use this to avoid real sleeps.
	InitialBackoff time.Duration
}

// New builds a Dispatcher. An empty bridge URL behaves as disabled.
func New(opts Options) *Dispatcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	base := opts.InitialBackoff
	if base <= 0 {
		base = initialBackoff
	}
	return &Dispatcher{
		bridgeURL:    opts.BridgeURL,
		enabled:      opts.Enabled && opts.BridgeURL != "",
		defaultSound: opts.DefaultSound,
		client:       client,
		logger:       logger,
		backoffBase:  base,
	}
}

// Close releases idle connections held by the underlying HTTP client.
func (d *Dispatcher) Close() {
	d.client.CloseIdleConnections()
}

// terminalStatus is a non-retryable bridge response: the request is
// malformed or rejected, repeating it won't help.
type terminalStatus struct {
	code int
}

func (e *terminalStatus) Error() string {
	return fmt.Sprintf("bridge rejected notification: status %d", e.code)
}

// Send posts one notification, retrying transient failures with
// exponential backoff (1s, 2s, 4s). 4xx responses abort immediately.
// After exhaustion it returns the result alongside a DeliveryFailed
// error.
func (d *Dispatcher) Send(ctx context.Context, n Notification) (Result, error) {
	if !d.enabled {
		d.logger.Printf("notify: disabled, dropping notification %q", n.Title)
		return Result{Delivered: false, Attempts: 0}, nil
	}
	if n.Sound == "" {
		n.Sound = d.defaultSound
	}

	body, err := json.Marshal(n)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.Internal, "encode notification", err)
	}

	attempts := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(d.backoffBase),
			backoff.WithMultiplier(2),
			backoff.WithRandomizationFactor(0),
		), maxAttempts-1), ctx)

	err = backoff.Retry(func() error {
		attempts++
		if err := d.post(ctx, body); err != nil {
			var term *terminalStatus
			if errors.As(err, &term) {
				return backoff.Permanent(err)
			}
			d.logger.Printf("notify: attempt %d failed: %v", attempts, err)
			return err
		}
		return nil
	}, policy)

	if err != nil {
		d.logger.Printf("notify: giving up on %q after %d attempts: %v", n.Title, attempts, err)
		return Result{Delivered: false, Attempts: attempts},
			apperr.Wrap(apperr.DeliveryFailed, "send notification", err)
	}
	return Result{Delivered: true, Attempts: attempts}, nil
}

// post performs one bounded attempt.
func (d *Dispatcher) post(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.bridgeURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &terminalStatus{code: resp.StatusCode}
	default:
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}
}
