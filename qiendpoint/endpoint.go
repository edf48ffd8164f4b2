// Package qiendpoint implements the multiplexed request/response duplex
// of §4.5: one cooperative read loop and one write loop per connection,
// a pending-request table correlating replies to outstanding calls by
// message id, and clean teardown on disconnect or fatal decode error.
//
// The mux shape — a single reader goroutine routing decoded frames by
// id into per-request channels, with an outbound channel feeding a
// single writer goroutine — mirrors minitunnel's tid-keyed multiplexer;
// qiendpoint generalises it from a fire-and-forget tunnel stream to
// call/reply correlation with cancellation and typed errors.
package qiendpoint

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/aldebaran/qimessaging/qilog"
	"github.com/aldebaran/qimessaging/qimessage"
)

type inboundResult struct {
	typ     qimessage.Type
	payload []byte
}

// Endpoint wraps one duplex byte stream and one Handler. The zero value
// is not usable; construct with New.
type Endpoint struct {
	conn    io.ReadWriteCloser
	handler Handler

	out      chan qimessage.Message
	quit     chan struct{}
	quitOnce sync.Once

	nextID uint32 // atomic, wraps per §4.5

	mu       sync.Mutex
	pending  map[uint32]chan inboundResult
	serving  map[uint32]context.CancelFunc
	closed   bool
	closeErr error
}

// New wraps conn with an Endpoint that dispatches inbound Calls,
// Posts, Events, and Capability messages to handler. Call Run to start
// the read/write loops; Run blocks until the connection ends.
func New(conn io.ReadWriteCloser, handler Handler) *Endpoint {
	return &Endpoint{
		conn:    conn,
		handler: handler,
		out:     make(chan qimessage.Message, 64),
		quit:    make(chan struct{}),
		pending: make(map[uint32]chan inboundResult),
		serving: make(map[uint32]context.CancelFunc),
		nextID:  1,
	}
}

// Run drives the endpoint until the connection closes or a fatal
// decode error occurs, then returns the terminating error (io.EOF on
// clean close). It is not safe to call Run more than once.
func (e *Endpoint) Run() error {
	go e.writeLoop()
	return e.readLoop()
}

// Close tears the endpoint down, failing every pending call with
// ErrLinkLost.
func (e *Endpoint) Close() error {
	e.teardown(ErrLinkLost)
	return nil
}

func (e *Endpoint) allocID() uint32 {
	return atomic.AddUint32(&e.nextID, 1)
}

func (e *Endpoint) writeLoop() {
	for {
		select {
		case <-e.quit:
			return
		case m, ok := <-e.out:
			if !ok {
				return
			}
			if _, err := e.conn.Write(qimessage.Encode(m)); err != nil {
				e.teardown(err)
				return
			}
		}
	}
}

func (e *Endpoint) readLoop() error {
	dec := qimessage.NewDecoder()
	buf := make([]byte, 32*1024)
	for {
		n, err := e.conn.Read(buf)
		if n > 0 {
			dec.Write(buf[:n])
			for {
				msg, derr := dec.Decode()
				if derr == qimessage.ErrNeedMore {
					break
				}
				if derr != nil {
					e.teardown(derr)
					return derr
				}
				e.dispatch(msg)
			}
		}
		if err != nil {
			e.teardown(err)
			return err
		}
	}
}

func (e *Endpoint) dispatch(msg qimessage.Message) {
	switch msg.Header.Type {
	case qimessage.TypeReply, qimessage.TypeError, qimessage.TypeCanceled:
		e.mu.Lock()
		ch, ok := e.pending[msg.Header.ID]
		if ok {
			delete(e.pending, msg.Header.ID)
		}
		e.mu.Unlock()
		if ok {
			ch <- inboundResult{typ: msg.Header.Type, payload: msg.Payload}
		}
	case qimessage.TypeCall:
		go e.serveCall(msg)
	case qimessage.TypePost, qimessage.TypeEvent, qimessage.TypeCapability:
		go e.handler.HandleOneway(msg.Header.Type, msg.Header.Address, msg.Payload)
	case qimessage.TypeCancel:
		e.mu.Lock()
		cancel, ok := e.serving[msg.Header.ID]
		e.mu.Unlock()
		if ok {
			cancel()
		}
	}
}

func (e *Endpoint) serveCall(msg qimessage.Message) {
	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.serving[msg.Header.ID] = cancel
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.serving, msg.Header.ID)
		e.mu.Unlock()
		cancel()
	}()

	payload, herr := e.handler.HandleCall(ctx, msg.Header.Address, msg.Payload)

	var reply qimessage.Message
	switch {
	case herr == nil:
		reply = qimessage.New(msg.Header.ID, qimessage.TypeReply, msg.Header.Address, 0, payload)
	case herr.IsCanceled:
		reply = qimessage.New(msg.Header.ID, qimessage.TypeCanceled, msg.Header.Address, 0, nil)
	default:
		reply = qimessage.New(msg.Header.ID, qimessage.TypeError, msg.Header.Address, 0, []byte(herr.Description))
	}

	select {
	case e.out <- reply:
	case <-e.quit:
		return
	}

	if herr != nil && herr.IsFatal {
		qilog.Errorln("qiendpoint: fatal handler error, tearing down:", herr.Description)
		e.teardown(herr)
	}
}

// Call sends a Call message and blocks until a Reply/Error/Canceled
// arrives, ctx is done (which emits a Cancel but keeps the pending slot
// registered, per §4.5), or the endpoint terminates.
func (e *Endpoint) Call(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, error) {
	id := e.allocID()
	ch := make(chan inboundResult, 1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrLinkLost
	}
	e.pending[id] = ch
	e.mu.Unlock()

	msg := qimessage.New(id, qimessage.TypeCall, addr, 0, payload)
	select {
	case e.out <- msg:
	case <-e.quit:
		return nil, ErrLinkLost
	}

	return e.awaitReply(ctx, id, addr, ch)
}

func (e *Endpoint) awaitReply(ctx context.Context, id uint32, addr qimessage.Address, ch chan inboundResult) ([]byte, error) {
	select {
	case res, ok := <-ch:
		if !ok {
			return nil, ErrLinkLost
		}
		return resultToValue(res)
	case <-e.quit:
		return nil, ErrLinkLost
	case <-ctx.Done():
		e.sendCancel(id, addr)
		select {
		case res, ok := <-ch:
			if !ok {
				return nil, ErrLinkLost
			}
			return resultToValue(res)
		case <-e.quit:
			return nil, ErrLinkLost
		}
	}
}

func resultToValue(res inboundResult) ([]byte, error) {
	switch res.typ {
	case qimessage.TypeReply:
		return res.payload, nil
	case qimessage.TypeCanceled:
		return nil, ErrCallCanceled
	default:
		return nil, &RemoteError{Payload: res.payload}
	}
}

func (e *Endpoint) sendCancel(id uint32, addr qimessage.Address) {
	msg := qimessage.New(id, qimessage.TypeCancel, addr, 0, nil)
	select {
	case e.out <- msg:
	case <-e.quit:
	}
}

// Cancel explicitly requests cancellation of an in-flight call by id,
// without waiting on its outcome. Call already does this internally
// when its ctx is done; Cancel is for callers managing ids themselves.
func (e *Endpoint) Cancel(addr qimessage.Address, id uint32) {
	e.sendCancel(id, addr)
}

// Post sends a fire-and-forget Post message.
func (e *Endpoint) Post(addr qimessage.Address, payload []byte) error {
	return e.send(qimessage.TypePost, addr, payload)
}

// Event sends a fire-and-forget Event message.
func (e *Endpoint) Event(addr qimessage.Address, payload []byte) error {
	return e.send(qimessage.TypeEvent, addr, payload)
}

// Capability sends a Capability-type update message (§4.6).
func (e *Endpoint) Capability(addr qimessage.Address, payload []byte) error {
	return e.send(qimessage.TypeCapability, addr, payload)
}

func (e *Endpoint) send(typ qimessage.Type, addr qimessage.Address, payload []byte) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrLinkLost
	}
	id := e.allocID()
	msg := qimessage.New(id, typ, addr, 0, payload)
	select {
	case e.out <- msg:
		return nil
	case <-e.quit:
		return ErrLinkLost
	}
}

func (e *Endpoint) teardown(err error) {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.closeErr = err
		pending := e.pending
		e.pending = nil
		e.mu.Unlock()

		for _, ch := range pending {
			close(ch)
		}
		close(e.quit)
		e.conn.Close()
	})
}
