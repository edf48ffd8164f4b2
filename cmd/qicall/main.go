// qicall is an illustrative CLI client for the core (§6): it dials a
// session target, runs the handshake, and drops into an interactive
// prompt where each line issues one Call and prints its reply.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qicontrol"
	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qilog"
	"github.com/aldebaran/qimessaging/qimessage"
	"github.com/aldebaran/qimessaging/qinode"
	"github.com/peterh/liner"
)

const (
	exitOK              = 0
	exitConnectionError = 1
	exitProtocolError   = 2
	exitApplicationError = 3
)

func main() {
	address := flag.String("address", "tcp://localhost:9559", "session target to dial")
	verbose := flag.Int("v", 0, "verbosity count (any value above 0 enables debug logging)")
	flag.Parse()

	qilog.Init()
	if *verbose > 0 {
		qilog.AddLogger("stderr", os.Stderr, qilog.DEBUG, true)
	}

	os.Exit(run(*address))
}

func run(address string) int {
	local := qicapability.New()
	local.SetBool(qicapability.KeyClientServerSocket, true)
	local.SetBool(qicapability.KeyMetaObjectCache, false)
	local.SetBool(qicapability.KeyMessageFlags, true)
	local.SetBool(qicapability.KeyRemoteCancelableCalls, true)
	local.SetBool(qicapability.KeyObjectPtrUID, true)
	local.SetBool(qicapability.KeyRelativeEndpointURI, true)

	conn, err := qinode.Dial(address, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qicall: connect:", err)
		return exitConnectionError
	}

	ep := qiendpoint.New(conn, qiendpoint.HandlerFuncs{})
	runErr := make(chan error, 1)
	go func() { runErr <- ep.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	negotiated, err := qicontrol.ClientHandshake(ctx, ep.Call, local)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qicall: handshake:", err)
		return exitConnectionError
	}
	qilog.Debugln("qicall: negotiated capabilities:", negotiated.Keys())

	return repl(ep)
}

func repl(ep *qiendpoint.Endpoint) int {
	input := liner.NewLiner()
	defer input.Close()

	fmt.Println("qicall ready. Enter \"service object action [hex-payload]\", Ctrl-D to quit.")

	for {
		line, err := input.Prompt("qi> ")
		if err == io.EOF {
			return exitOK
		} else if err != nil {
			fmt.Fprintln(os.Stderr, "qicall:", err)
			return exitProtocolError
		}
		input.AppendHistory(line)

		addr, payload, err := parseLine(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "qicall:", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		reply, err := ep.Call(ctx, addr, payload)
		cancel()
		if err != nil {
			var remote *qiendpoint.RemoteError
			if errors.As(err, &remote) {
				fmt.Fprintln(os.Stderr, "qicall: application error:", string(remote.Payload))
				return exitApplicationError
			}
			fmt.Fprintln(os.Stderr, "qicall:", err)
			return exitProtocolError
		}
		fmt.Printf("reply: %s\n", hex.EncodeToString(reply))
	}
}

func parseLine(line string) (qimessage.Address, []byte, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return qimessage.Address{}, nil, fmt.Errorf("expected \"service object action [hex-payload]\"")
	}
	service, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return qimessage.Address{}, nil, fmt.Errorf("bad service: %w", err)
	}
	object, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return qimessage.Address{}, nil, fmt.Errorf("bad object: %w", err)
	}
	action, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return qimessage.Address{}, nil, fmt.Errorf("bad action: %w", err)
	}

	var payload []byte
	if len(fields) > 3 {
		payload, err = hex.DecodeString(fields[3])
		if err != nil {
			return qimessage.Address{}, nil, fmt.Errorf("bad hex payload: %w", err)
		}
	}

	return qimessage.Address{Service: uint32(service), Object: uint32(object), Action: uint32(action)}, payload, nil
}
