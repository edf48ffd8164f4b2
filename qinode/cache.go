package qinode

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"sync"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qicontrol"
	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qimessage"
)

// Session is a live, authenticated connection to a remote session,
// cached under the service name it was opened for.
type Session struct {
	Endpoint   *qiendpoint.Endpoint
	Negotiated *qicapability.Map
}

// Call forwards to the underlying endpoint.
func (s *Session) Call(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, error) {
	return s.Endpoint.Call(ctx, addr, payload)
}

var rejectEverything = qiendpoint.HandlerFuncs{}

// Cache is the §4.8 session cache: service name to a live session. It
// approximates a weak reference with explicit removal on disconnect,
// since Go has no portable user-level weak pointer prior to the weak
// package's arrival — see DESIGN.md.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewCache returns an empty session cache.
func NewCache() *Cache {
	return &Cache{sessions: make(map[string]*Session)}
}

// lookup returns the session currently cached under name.
func (c *Cache) lookup(name string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[name]
	return s, ok
}

// Get resolves name against targets in order (§4.8): a "qi:<ref>"
// target reuses an existing cached session under ref; anything else is
// dialed as an endpoint URL, handshaken with local's capabilities, and
// cached under name. handler answers calls the remote side makes back
// on the new session; pass nil to reject all of them. clientCert is
// used for tcpsm:// mutual-TLS targets.
func (c *Cache) Get(ctx context.Context, name string, targets []string, local *qicapability.Map, handler qiendpoint.Handler, clientCert *tls.Certificate) (*Session, error) {
	if s, ok := c.lookup(name); ok {
		return s, nil
	}
	if handler == nil {
		handler = rejectEverything
	}

	diagnostics := make(map[string]error)
	for _, target := range targets {
		if ref, ok := strings.CutPrefix(target, "qi:"); ok {
			if s, ok := c.lookup(ref); ok {
				c.mu.Lock()
				c.sessions[name] = s
				c.mu.Unlock()
				return s, nil
			}
			diagnostics[target] = fmt.Errorf("qinode: no cached session for %q", ref)
			continue
		}

		conn, err := Dial(target, clientCert)
		if err != nil {
			diagnostics[target] = err
			continue
		}

		ep := qiendpoint.New(conn, handler)
		go func() {
			err := ep.Run()
			c.mu.Lock()
			if cur, ok := c.sessions[name]; ok && cur.Endpoint == ep {
				delete(c.sessions, name)
			}
			_ = err
			c.mu.Unlock()
		}()

		negotiated, err := qicontrol.ClientHandshake(ctx, ep.Call, local)
		if err != nil {
			ep.Close()
			diagnostics[target] = err
			continue
		}

		session := &Session{Endpoint: ep, Negotiated: negotiated}
		c.mu.Lock()
		c.sessions[name] = session
		c.mu.Unlock()
		return session, nil
	}

	return nil, &UnreachableService{Name: name, Targets: diagnostics}
}

// Evict removes name from the cache without closing its session,
// e.g. when a caller wants to force a fresh connection next Get.
func (c *Cache) Evict(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, name)
}
