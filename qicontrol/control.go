// Package qicontrol implements the control plane and handshake of §4.6:
// the Authenticate and capability-update exchanges targeted at
// service=0, object=0, capability intersection against the core's
// required-key policy, and the client/server handshake state machines
// built on top of qiendpoint.
package qicontrol

import "github.com/aldebaran/qimessaging/qimessage"

// ControlService and ControlObject identify the well-known control
// plane address; ordinary application traffic never targets it.
const (
	ControlService uint32 = 0
	ControlObject  uint32 = 0
)

// Control plane actions.
const (
	ActionUpdateCapabilities uint32 = 0
	ActionAuthenticate       uint32 = 8
)

// AuthenticateAddress and CapabilityUpdateAddress are the two control
// plane subjects.
var (
	AuthenticateAddress      = qimessage.Address{Service: ControlService, Object: ControlObject, Action: ActionAuthenticate}
	CapabilityUpdateAddress  = qimessage.Address{Service: ControlService, Object: ControlObject, Action: ActionUpdateCapabilities}
)

// IsControlAddress reports whether addr targets the control plane.
func IsControlAddress(addr qimessage.Address) bool {
	return addr.Service == ControlService && addr.Object == ControlObject
}
