package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/logger"
)

var (
	errBrokenPipe = errors.New("write: broken pipe")
	errConnReset  = errors.New("read: connection reset by peer")
	errRefused    = errors.New("dial: connection refused")
)

// recorder keeps one ordered log of everything observable: dials, closes, emits, sink calls.
type recorder struct {
	mu       sync.Mutex
	log      []string
	payloads map[string][]json.RawMessage
	failures map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		payloads: make(map[string][]json.RawMessage),
		failures: make(map[string]int),
	}
}

func (r *recorder) add(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, entry)
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func (r *recorder) count(entry string) int {
	n := 0
	for _, e := range r.entries() {
		if e == entry {
			n++
		}
	}
	return n
}

func (r *recorder) sent(event types.Event) []json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]json.RawMessage(nil), r.payloads[event.String()]...)
}

// failNext makes the next n sends of key fail. Key is an event name or "dial".
func (r *recorder) failNext(key string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[key] = n
}

func (r *recorder) shouldFail(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures[key] > 0 {
		r.failures[key]--
		return true
	}
	return false
}

type inbound struct {
	event string
	data  json.RawMessage
}

type fakeConn struct {
	rec       *recorder
	inbound   chan inbound
	closed    chan struct{}
	dropped   chan struct{}
	closeOnce sync.Once
	dropOnce  sync.Once
}

func (c *fakeConn) Emit(_ context.Context, event string, data any) error {
	select {
	case <-c.closed:
		return errors.New("use of closed connection")
	default:
	}

	c.rec.add("emit:" + event)
	if c.rec.shouldFail(event) {
		return errBrokenPipe
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.rec.mu.Lock()
	c.rec.payloads[event] = append(c.rec.payloads[event], raw)
	c.rec.mu.Unlock()
	return nil
}

func (c *fakeConn) Receive(ctx context.Context) (string, json.RawMessage, error) {
	select {
	case msg := <-c.inbound:
		return msg.event, msg.data, nil
	case <-c.closed:
		return "", nil, io.EOF
	case <-c.dropped:
		return "", nil, errConnReset
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.rec.add("close")
	})
	return nil
}

// push delivers a server event.
func (c *fakeConn) push(event types.Event, data string) {
	var raw json.RawMessage
	if data != "" {
		raw = json.RawMessage(data)
	}
	c.inbound <- inbound{event: event.String(), data: raw}
}

// drop simulates the peer going away.
func (c *fakeConn) drop() {
	c.dropOnce.Do(func() { close(c.dropped) })
}

type fakeDialer struct {
	rec *recorder

	mu       sync.Mutex
	attempts int
	refuse   map[int]bool // 1-based dial attempts that fail
	conns    []*fakeConn
}

func (d *fakeDialer) Dial(context.Context) (Conn, error) {
	d.rec.add("dial")

	d.mu.Lock()
	d.attempts++
	refused := d.refuse[d.attempts]
	d.mu.Unlock()

	if refused || d.rec.shouldFail("dial") {
		return nil, errRefused
	}

	conn := &fakeConn{
		rec:     d.rec,
		inbound: make(chan inbound, 8),
		closed:  make(chan struct{}),
		dropped: make(chan struct{}),
	}

	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	return conn, nil
}

func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

type fakeUsers struct {
	id  string
	err error
}

func (u fakeUsers) UserID(context.Context) (string, error) {
	return u.id, u.err
}

// switchableUsers lets a test change the identity between registrations.
type switchableUsers struct {
	mu  sync.Mutex
	id  string
	err error
}

func (u *switchableUsers) UserID(context.Context) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.id, u.err
}

func (u *switchableUsers) fail(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.id, u.err = "", err
}

type fakeLocations struct {
	mu  sync.Mutex
	loc *models.Location
}

func (l *fakeLocations) Location(context.Context) (models.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loc == nil {
		return models.Location{}, false
	}
	return *l.loc, true
}

func (l *fakeLocations) set(loc models.Location) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loc = &loc
}

type fakeState struct {
	rec *recorder

	mu      sync.Mutex
	loading bool
	starts  int
	stops   int
	routes  []models.RouteUpdate
}

func (s *fakeState) StartLoading(context.Context) {
	s.rec.add("loading:start")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.starts++
}

func (s *fakeState) StopLoading(context.Context) {
	s.rec.add("loading:stop")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.stops++
}

func (s *fakeState) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *fakeState) SetActiveRoute(_ context.Context, route models.RouteUpdate) {
	s.rec.add("route")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, route)
}

func (s *fakeState) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *fakeState) activeRoutes() []models.RouteUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RouteUpdate(nil), s.routes...)
}

type harness struct {
	rec       *recorder
	dialer    *fakeDialer
	locations *fakeLocations
	state     *fakeState
	client    *Client

	sleepsMu sync.Mutex
	sleeps   []time.Duration
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	users UserProvider
	cfg   Config
	loc   *models.Location
}

func withUsers(u UserProvider) harnessOption {
	return func(c *harnessConfig) { c.users = u }
}

func withConfig(cfg Config) harnessOption {
	return func(c *harnessConfig) { c.cfg = cfg }
}

func withoutLocation() harnessOption {
	return func(c *harnessConfig) { c.loc = nil }
}

func newHarness(opts ...harnessOption) *harness {
	hc := harnessConfig{
		users: fakeUsers{id: "user-42"},
		cfg: Config{
			Retry: RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
		},
		loc: &models.Location{Latitude: 43.238, Longitude: 76.889},
	}
	for _, opt := range opts {
		opt(&hc)
	}

	rec := newRecorder()
	h := &harness{
		rec:       rec,
		dialer:    &fakeDialer{rec: rec, refuse: make(map[int]bool)},
		locations: &fakeLocations{loc: hc.loc},
		state:     &fakeState{rec: rec},
	}

	h.client = New(h.dialer, hc.users, h.locations, h.state, h.state, hc.cfg, logger.New(io.Discard, "test", logger.LevelDebug))
	h.client.sleep = func(_ context.Context, d time.Duration) error {
		h.sleepsMu.Lock()
		defer h.sleepsMu.Unlock()
		h.sleeps = append(h.sleeps, d)
		return nil
	}

	return h
}

func (h *harness) recordedSleeps() []time.Duration {
	h.sleepsMu.Lock()
	defer h.sleepsMu.Unlock()
	return append([]time.Duration(nil), h.sleeps...)
}
