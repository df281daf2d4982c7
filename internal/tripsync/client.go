package tripsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"backend-schoolbus/internal/stream"
	"backend-schoolbus/internal/trip"

	"github.com/gorilla/websocket"
)

var ErrDialGuardTimeout = errors.New("connection attempt timed out")

const (
	defaultBaseDelay       = time.Second
	defaultMaxDelay        = 10 * time.Second
	defaultGuardTimeout    = 10 * time.Second
	defaultMaxAttempts     = 5
	defaultRefetchDebounce = 500 * time.Millisecond
)

// Config wires one Client to one trip channel.
type Config struct {
	BaseURL string
	Token   string
	TripID  string

	BaseDelay       time.Duration
	MaxDelay        time.Duration
	GuardTimeout    time.Duration
	MaxAttempts     int
	RefetchDebounce time.Duration

	// OnChange receives a copy of the state after every mutation. It runs
	// with the client's internal lock held: keep it fast and never call
	// back into the client from inside it.
	OnChange func(TripState)
}

func (c *Config) fillDefaults() {
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}
	if c.GuardTimeout <= 0 {
		c.GuardTimeout = defaultGuardTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RefetchDebounce <= 0 {
		c.RefetchDebounce = defaultRefetchDebounce
	}
}

// streamConn is the slice of *websocket.Conn the client needs.
type streamConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type stopper interface {
	Stop() bool
}

// Client keeps one trip channel alive: it dials, backs off on failure, and
// folds stream events and REST snapshots into a single TripState.
type Client struct {
	cfg        Config
	channelURL string

	mu             sync.Mutex
	state          TripState
	conn           streamConn
	attempt        int
	disposed       bool
	retryTimer     stopper
	refetchTimer   stopper
	refetchPending bool

	// injection points for tests
	dial  func(url string) (streamConn, int, error)
	fetch func(ctx context.Context, tripID string) (trip.Detail, error)
	after func(d time.Duration, fn func()) stopper
}

func NewClient(cfg Config) *Client {
	cfg.fillDefaults()
	c := &Client{
		cfg: cfg,
		state: TripState{
			TripID:           cfg.TripID,
			ConnectionStatus: StatusIdle,
		},
		dial: func(url string) (streamConn, int, error) {
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				status := 0
				if resp != nil {
					status = resp.StatusCode
				}
				return nil, status, err
			}
			return conn, 0, nil
		},
		after: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
	fetcher := NewSnapshotFetcher(cfg.BaseURL, cfg.Token)
	c.fetch = fetcher.Fetch
	return c
}

// Start derives the channel URL and begins the first connection attempt. A
// missing credential or unusable endpoint is a configuration error: the
// client goes straight to Failed and never retries.
func (c *Client) Start() error {
	channelURL, err := ChannelURL(c.cfg.BaseURL, c.cfg.TripID, c.cfg.Token)
	if err != nil {
		c.mu.Lock()
		c.state.LastError = err.Error()
		c.setStatusLocked(StatusFailed)
		c.mu.Unlock()
		return err
	}
	c.channelURL = channelURL
	go c.connect()
	return nil
}

// State returns a copy of the current merged view.
func (c *Client) State() TripState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Retry restarts the connection cycle after the attempt ceiling was hit. The
// counter resets, so the backoff schedule starts over.
func (c *Client) Retry() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.attempt = 0
	c.state.ReconnectAttempt = 0
	c.state.LastError = ""
	c.mu.Unlock()
	go c.connect()
}

// Dispose tears the client down: timers cancelled, connection closed with a
// normal-closure frame, and no callback fires after it returns. Safe to call
// more than once.
func (c *Client) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	if c.retryTimer != nil {
		c.retryTimer.Stop()
	}
	if c.refetchTimer != nil {
		c.refetchTimer.Stop()
	}
	conn := c.conn
	c.conn = nil
	c.state.ConnectionStatus = StatusDisconnected
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "disposed"))
		_ = conn.Close()
	}
}

func (c *Client) connect() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.setStatusLocked(StatusConnecting)
	c.mu.Unlock()

	// Snapshot fetch races the dial on purpose: whichever lands first seeds
	// the view and the other merges in per key.
	go c.fetchSnapshot()

	type dialResult struct {
		conn   streamConn
		status int
		err    error
	}
	done := make(chan dialResult, 1)
	go func() {
		conn, status, err := c.dial(c.channelURL)
		done <- dialResult{conn: conn, status: status, err: err}
	}()

	guard := make(chan struct{})
	guardTimer := c.after(c.cfg.GuardTimeout, func() { close(guard) })

	var res dialResult
	select {
	case res = <-done:
		guardTimer.Stop()
	case <-guard:
		// Half-open dial: abandon it and let the late result be closed.
		go func() {
			if late := <-done; late.conn != nil {
				_ = late.conn.Close()
			}
		}()
		c.scheduleRetry(ErrDialGuardTimeout)
		return
	}
	if res.err != nil {
		// A handshake the endpoint rejected outright means the credential is
		// bad; retrying with it cannot succeed, so park in Failed right away.
		if res.status == http.StatusUnauthorized || res.status == http.StatusForbidden {
			c.mu.Lock()
			if !c.disposed {
				c.state.LastError = fmt.Sprintf("credential rejected (%d): %v", res.status, res.err)
				c.setStatusLocked(StatusFailed)
			}
			c.mu.Unlock()
			return
		}
		c.scheduleRetry(res.err)
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		_ = res.conn.Close()
		return
	}
	c.conn = res.conn
	c.attempt = 0
	c.state.ReconnectAttempt = 0
	c.state.LastError = ""
	c.setStatusLocked(StatusConnected)
	c.mu.Unlock()

	go c.readLoop(res.conn)
}

func (c *Client) readLoop(conn streamConn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(err)
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleDisconnect(err error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		// Intentional shutdown from the far side: stay down, no retry.
		c.mu.Lock()
		c.setStatusLocked(StatusDisconnected)
		c.mu.Unlock()
		return
	}
	c.scheduleRetry(err)
}

// scheduleRetry implements the backoff ladder. Attempt k waits
// min(base*2^(k-1), cap); past MaxAttempts the client parks in Failed until
// a manual Retry.
func (c *Client) scheduleRetry(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	c.conn = nil
	c.state.LastError = cause.Error()
	c.attempt++
	c.state.ReconnectAttempt = c.attempt

	if c.attempt >= c.cfg.MaxAttempts {
		c.setStatusLocked(StatusFailed)
		return
	}

	c.setStatusLocked(StatusDisconnected)
	delay := backoffDelay(c.cfg.BaseDelay, c.cfg.MaxDelay, c.attempt)
	c.retryTimer = c.after(delay, func() { c.connect() })
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}

// handleMessage folds one inbound envelope into the state. It never blocks:
// the only network activity it can cause is the debounced snapshot refetch,
// which runs on its own goroutine.
func (c *Client) handleMessage(raw []byte) {
	var env stream.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	switch env.Type {
	case "initial_data":
		var snap trip.Detail
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			return
		}
		c.state.applySnapshot(snap)
		c.notifyLocked()
	case "location_update":
		var loc trip.Location
		if err := json.Unmarshal(env.Data, &loc); err != nil {
			return
		}
		c.state.applyLocation(loc)
		c.notifyLocked()
	case "eta_update":
		var eta struct {
			MinutesRemaining float64 `json:"minutes_remaining"`
		}
		if err := json.Unmarshal(env.Data, &eta); err != nil {
			return
		}
		c.state.applyETA(eta.MinutesRemaining)
		c.notifyLocked()
	case "attendance":
		var counts trip.AttendanceCounts
		if err := json.Unmarshal(env.Data, &counts); err == nil {
			c.state.applyAttendance(counts.CheckedIn, counts.Total)
			c.notifyLocked()
		}
		c.scheduleRefetchLocked()
	case "trip_update":
		var upd struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(env.Data, &upd); err == nil {
			c.state.applyTripStatus(upd.Status)
			c.notifyLocked()
		}
		c.scheduleRefetchLocked()
	case "notification":
		c.scheduleRefetchLocked()
	default:
		// Unknown types are ignored so the protocol can grow.
	}
}

// scheduleRefetchLocked coalesces refetch triggers: a burst of events inside
// the debounce window produces a single snapshot request.
func (c *Client) scheduleRefetchLocked() {
	if c.refetchPending {
		return
	}
	c.refetchPending = true
	c.refetchTimer = c.after(c.cfg.RefetchDebounce, func() {
		c.mu.Lock()
		c.refetchPending = false
		disposed := c.disposed
		c.mu.Unlock()
		if !disposed {
			c.fetchSnapshot()
		}
	})
}

func (c *Client) fetchSnapshot() {
	snap, err := c.fetch(context.Background(), c.cfg.TripID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	if err != nil {
		// A failed snapshot never touches the connection state; existing
		// fields stay as they are.
		c.state.SnapshotError = err.Error()
		c.notifyLocked()
		return
	}
	c.state.SnapshotError = ""
	c.state.applySnapshot(snap)
	c.notifyLocked()
}

// PublishLocation forwards one sample on the channel. Samples are dropped
// unless the connection is live and the trip is running: a stale position is
// worse than a gap.
func (c *Client) PublishLocation(loc trip.Location) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || c.conn == nil || c.state.ConnectionStatus != StatusConnected {
		return false
	}
	if c.state.TripStatus != trip.StatusInProgress {
		return false
	}

	payload, err := json.Marshal(stream.LocationUpdate{
		Type:     "location_update",
		Lat:      loc.Lat,
		Lng:      loc.Lng,
		Speed:    loc.Speed,
		Heading:  loc.Heading,
		Accuracy: loc.Accuracy,
	})
	if err != nil {
		return false
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload) == nil
}

func (c *Client) setStatusLocked(status ConnectionStatus) {
	c.state.ConnectionStatus = status
	c.notifyLocked()
}

func (c *Client) notifyLocked() {
	if c.cfg.OnChange != nil && !c.disposed {
		c.cfg.OnChange(c.state.clone())
	}
}
