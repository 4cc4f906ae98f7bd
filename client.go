package ovsdb

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Default addresses used when an endpoint supplies no host/path of its
// own, matching ovsdb-server's own defaults.
const (
	defaultTCPAddress  = "127.0.0.1:6640"
	defaultUnixAddress = "/var/run/openvswitch/db.sock"
)

// Option configures a Client at connect time.
type Option func(*options)

type options struct {
	dialTimeout   time.Duration
	tlsConfig     *tls.Config
	requestBuffer int
}

// WithDialTimeout bounds how long Connect waits for the underlying
// socket to come up. The zero value (the default) waits indefinitely,
// subject to ctx.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithTLSConfig supplies the TLS configuration used for "ssl" endpoints.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) { o.tlsConfig = cfg }
}

// WithRequestBuffer sets the outstanding-request channel's buffer size.
// The default is 32.
func WithRequestBuffer(n int) Option {
	return func(o *options) { o.requestBuffer = n }
}

// Client is an OVSDB client runtime: a single goroutine owns the
// connection and a map of outstanding requests, correlating replies to
// callers by request id over one-shot reply channels. All exported
// methods are safe to call concurrently; they only ever hand work to
// the runtime goroutine over channels.
type Client struct {
	requestCh chan clientRequest
	commandCh chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	errOnce sync.Once
	runErr  error
}

// fail records the first fatal transport/codec error seen by either
// runtime goroutine. Only the first call has effect; c.runErr is safe
// to read after c.wg.Wait() without further synchronization.
func (c *Client) fail(err error) {
	c.errOnce.Do(func() { c.runErr = err })
}

type clientRequest struct {
	request *Request
	reply   chan *Response
}

// Connect dials the first reachable endpoint in a comma-separated list
// of OVSDB connection methods (e.g. "unix:/var/run/openvswitch/db.sock"
// or "tcp:127.0.0.1:6640" or "ssl:127.0.0.1:6640") and starts the client
// runtime against it.
func Connect(ctx context.Context, endpoints string, opts ...Option) (*Client, error) {
	cfg := options{requestBuffer: 32}
	for _, opt := range opts {
		opt(&cfg)
	}

	var conn net.Conn
	var lastErr error
	for _, endpoint := range strings.Split(endpoints, ",") {
		conn, lastErr = dialEndpoint(ctx, endpoint, &cfg)
		if lastErr == nil {
			return start(conn, cfg.requestBuffer), nil
		}
	}
	return nil, errors.Wrapf(ErrConnectionFailed, "%s: %v", endpoints, lastErr)
}

// ConnectUnix is a convenience wrapper around Connect for a single Unix
// domain socket path.
func ConnectUnix(ctx context.Context, path string, opts ...Option) (*Client, error) {
	return Connect(ctx, "unix:"+path, opts...)
}

// ConnectTCP is a convenience wrapper around Connect for a single
// "host:port" TCP address.
func ConnectTCP(ctx context.Context, address string, opts ...Option) (*Client, error) {
	return Connect(ctx, "tcp:"+address, opts...)
}

func dialEndpoint(ctx context.Context, endpoint string, cfg *options) (net.Conn, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	// u.Opaque holds the endpoint with its leading "scheme:" stripped,
	// e.g. endpoint "tcp:127.0.0.1:6640" parses with u.Opaque ==
	// "127.0.0.1:6640".
	host := u.Opaque
	dialer := &net.Dialer{Timeout: cfg.dialTimeout}

	switch u.Scheme {
	case "unix":
		path := u.Path
		if path == "" {
			path = host
		}
		if path == "" {
			path = defaultUnixAddress
		}
		return dialer.DialContext(ctx, "unix", path)
	case "tcp":
		if host == "" {
			host = defaultTCPAddress
		}
		return dialer.DialContext(ctx, "tcp", host)
	case "ssl":
		if host == "" {
			host = defaultTCPAddress
		}
		raw, err := dialer.DialContext(ctx, "tcp", host)
		if err != nil {
			return nil, err
		}
		return tls.Client(raw, cfg.tlsConfig), nil
	default:
		return nil, fmt.Errorf("unknown connection method %q", u.Scheme)
	}
}

func start(conn net.Conn, requestBuffer int) *Client {
	c := &Client{
		requestCh: make(chan clientRequest, requestBuffer),
		commandCh: make(chan struct{}),
		done:      make(chan struct{}),
	}
	frames := make(chan []byte, requestBuffer)
	c.wg.Add(2)
	go c.readLoop(conn, frames)
	go c.mainLoop(conn, frames)
	return c
}

// readLoop pumps complete frames out of conn and forwards them to the
// runtime goroutine, until the connection fails or Close runs.
func (c *Client) readLoop(conn net.Conn, frames chan<- []byte) {
	defer c.wg.Done()
	defer close(frames)

	scanner := NewFrameScanner(conn)
	for scanner.Scan() {
		frame := append([]byte(nil), scanner.Bytes()...)
		select {
		case frames <- frame:
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		// A read cut short by mainLoop closing conn on shutdown is not a
		// transport failure.
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			return
		}
		glog.Errorf("ovsdb: frame scanner failed: %v", err)
		c.fail(err)
	}
}

// mainLoop is the actor: a single select over the caller-request
// channel, the shutdown command channel, and the frames fed by
// readLoop. It owns the outstanding-request map and the connection, so
// nothing about them needs its own synchronization.
func (c *Client) mainLoop(conn net.Conn, frames <-chan []byte) {
	defer c.wg.Done()
	defer conn.Close()

	pending := make(map[string]chan *Response)
	defer func() {
		for _, reply := range pending {
			close(reply)
		}
	}()

	for {
		select {
		case req, ok := <-c.requestCh:
			if !ok {
				return
			}
			if req.request.ID != nil {
				pending[req.request.ID.String()] = req.reply
			}
			data, err := EncodeMessage(&Message{Request: req.request})
			if err != nil {
				glog.Errorf("ovsdb: failed to encode request: %v", err)
				if req.request.ID != nil {
					delete(pending, req.request.ID.String())
				}
				close(req.reply)
				continue
			}
			if _, err := conn.Write(data); err != nil {
				glog.Errorf("ovsdb: failed to write request: %v", err)
				c.fail(err)
				return
			}

		case _, ok := <-c.commandCh:
			if !ok {
				return
			}

		case frame, ok := <-frames:
			if !ok {
				return
			}
			c.dispatch(conn, frame, pending)
		}
	}
}

func (c *Client) dispatch(conn net.Conn, frame []byte, pending map[string]chan *Response) {
	msg, err := DecodeMessage(frame)
	if err != nil {
		glog.Errorf("ovsdb: failed to decode frame: %v", err)
		return
	}

	switch {
	case msg.Response != nil:
		res := msg.Response
		if res.ID == nil {
			glog.V(1).Infof("ovsdb: dropping response with null id")
			return
		}
		reply, ok := pending[res.ID.String()]
		if !ok {
			glog.V(2).Infof("ovsdb: dropping response for unknown id %s", res.ID)
			return
		}
		delete(pending, res.ID.String())
		reply <- res
		close(reply)

	case msg.Request != nil:
		req := msg.Request
		if req.ID == nil {
			glog.V(1).Infof("ovsdb: dropping server request with null id")
			return
		}
		if req.Method != MethodEcho {
			glog.V(2).Infof("ovsdb: ignoring unsupported server request %q", req.Method)
			return
		}
		result, err := json.Marshal(req.Params)
		if err != nil {
			glog.Errorf("ovsdb: failed to re-encode echo params: %v", err)
			return
		}
		reply := &Response{ID: req.ID, Result: result}
		data, err := EncodeMessage(&Message{Response: reply})
		if err != nil {
			glog.Errorf("ovsdb: failed to encode echo reply: %v", err)
			return
		}
		if _, err := conn.Write(data); err != nil {
			glog.Errorf("ovsdb: failed to write echo reply: %v", err)
		}
	}
}

// Execute sends a raw request and blocks for its matching reply. Most
// callers should prefer Echo/ListDatabases/GetSchema/Transact; Execute
// exists for requests this client doesn't wrap with a typed helper.
// Execute has no timeout of its own: a caller wanting a deadline must
// race it against their own timer.
func (c *Client) Execute(req *Request) (*Response, error) {
	select {
	case <-c.done:
		return nil, ErrNotRunning
	default:
	}

	reply := make(chan *Response, 1)
	select {
	case c.requestCh <- clientRequest{request: req, reply: reply}:
	case <-c.done:
		return nil, ErrNotRunning
	}

	res, ok := <-reply
	if !ok || res == nil {
		return nil, ErrCanceled
	}
	return res, nil
}

// Echo issues an "echo" request; a healthy server returns args
// unchanged.
func (c *Client) Echo(args []string) ([]string, error) {
	res, err := c.Execute(NewEchoRequest(args))
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, &ServerError{Message: res.ErrorMessage()}
	}
	var result []string
	if err := res.Decode(&result); err != nil {
		return nil, errors.Wrap(ErrUnexpectedResult, err.Error())
	}
	return result, nil
}

// ListDatabases issues a "list_dbs" request.
func (c *Client) ListDatabases() ([]string, error) {
	res, err := c.Execute(NewListDatabasesRequest())
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, &ServerError{Message: res.ErrorMessage()}
	}
	var dbs []string
	if err := res.Decode(&dbs); err != nil {
		return nil, errors.Wrap(ErrUnexpectedResult, err.Error())
	}
	return dbs, nil
}

// GetSchema issues a "get_schema" request for the named database.
func (c *Client) GetSchema(database string) (*Schema, error) {
	res, err := c.Execute(NewGetSchemaRequest(database))
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, &ServerError{Message: res.ErrorMessage()}
	}
	var schema Schema
	if err := res.Decode(&schema); err != nil {
		return nil, errors.Wrap(ErrUnexpectedResult, err.Error())
	}
	return &schema, nil
}

// OperationResult is a single operation's outcome within a transact
// reply. Only the fields a "select" operation can populate are
// modeled; this client issues no other operation kind.
type OperationResult struct {
	Rows    []Row  `json:"rows,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Transact issues a "transact" request carrying the given operations
// against the named database.
func (c *Client) Transact(database string, ops ...Operation) ([]OperationResult, error) {
	res, err := c.Execute(NewTransactRequest(database, ops))
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, &ServerError{Message: res.ErrorMessage()}
	}
	var results []OperationResult
	if err := res.Decode(&results); err != nil {
		return nil, errors.Wrap(ErrUnexpectedResult, err.Error())
	}
	return results, nil
}

// Close signals the runtime goroutine to shut down, closes the
// connection, and waits for both the runtime and reader goroutines to
// exit. Any request awaiting a reply is delivered ErrCanceled. If a
// fatal transport or codec failure brought the runtime down on its
// own, Close reports it wrapped in ErrCommunicationFailure rather than
// reporting a clean shutdown. Close is safe to call more than once;
// only the first call has effect, including its error: later calls
// observe the same runErr after waiting on the already-stopped
// goroutines.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.commandCh)
		close(c.done)
	})
	c.wg.Wait()
	if c.runErr != nil {
		return errors.Wrap(ErrCommunicationFailure, c.runErr.Error())
	}
	return nil
}
