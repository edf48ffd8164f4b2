package qisession

import (
	"fmt"

	"github.com/aldebaran/qimessaging/qimessage"
)

// UnhandledRequest is the Error reported for an address that matches
// neither the control plane nor an application handler (§4.7).
type UnhandledRequest struct {
	Address qimessage.Address
}

func (e *UnhandledRequest) Error() string {
	return fmt.Sprintf("qisession: unhandled request to %v", e.Address)
}
