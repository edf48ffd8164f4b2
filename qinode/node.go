// Package qinode implements §4.8 (session cache & targets) and §4.9
// (node & server): dialing and caching outbound sessions, accepting
// inbound connections, and a name-unique local service registry that
// accepted sessions' routers dispatch application traffic into.
package qinode

import (
	"fmt"
	"net"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qicontrol"
	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qilog"
	"github.com/aldebaran/qimessaging/qisession"
)

// Node owns a session cache, an optional listener, and a registry of
// local services. Accepted connections each get their own Router
// (§4.7) wired to this node's registry through a Dispatcher.
type Node struct {
	Cache    *Cache
	Registry *Registry

	local         *qicapability.Map
	authenticator qicontrol.Authenticator

	listeners []net.Listener
}

// NewNode builds a node advertising local capabilities to peers and
// authenticating inbound handshakes with authenticator (AllowAny for
// none).
func NewNode(local *qicapability.Map, authenticator qicontrol.Authenticator) *Node {
	return &Node{
		Cache:         NewCache(),
		Registry:      NewRegistry(),
		local:         local,
		authenticator: authenticator,
	}
}

// Listen starts accepting connections on ln; each accepted connection
// is driven by its own session until it disconnects. Listen returns
// immediately; accepting happens in a background goroutine.
func (n *Node) Listen(ln net.Listener) {
	n.listeners = append(n.listeners, ln)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				qilog.Debugln("qinode: accept loop exiting:", err)
				return
			}
			qilog.Debugln("qinode: new connection from", conn.RemoteAddr())
			go n.serve(conn)
		}
	}()
}

// ListenAndServe is a convenience wrapper: it calls net.Listen(network,
// addr) and then Listen on the result.
func (n *Node) ListenAndServe(network, addr string) error {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return fmt.Errorf("qinode: listen %s %s: %w", network, addr, err)
	}
	n.Listen(ln)
	return nil
}

// Close shuts every listener started with Listen down.
func (n *Node) Close() error {
	var firstErr error
	for _, ln := range n.listeners {
		if err := ln.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *Node) serve(conn net.Conn) {
	control := qicontrol.NewServerState(n.local, n.authenticator)
	dispatcher := NewDispatcher(n.Registry)
	router := qisession.NewRouter(control, dispatcher)

	ep := qiendpoint.New(conn, router)
	if err := ep.Run(); err != nil {
		qilog.Debugln("qinode: session from", conn.RemoteAddr(), "ended:", err)
	}
}
