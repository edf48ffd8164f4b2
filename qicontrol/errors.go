package qicontrol

import "fmt"

// ErrUnsupportedContinue is returned when a server reply's auth state is
// "continue": this core spec declares multi-round authentication
// unsupported (§4.6, §9 open questions).
var ErrUnsupportedContinue = fmt.Errorf("qicontrol: unsupported auth continuation")

// ErrNoAuthState is returned when an Authenticate reply carries no
// __qi_auth_state key, or one that is not a recognized AuthState. A
// handshake only succeeds when the state is explicitly "done"; a
// missing or unrecognized state is never treated as success.
var ErrNoAuthState = fmt.Errorf("qicontrol: authentication reply carries no auth state")

// AuthRefused is returned when the server's Authenticate reply carries
// auth state "error", or when the server rejects the request outright.
type AuthRefused struct {
	Reason string
}

func (e *AuthRefused) Error() string {
	if e.Reason == "" {
		return "qicontrol: authentication refused"
	}
	return fmt.Sprintf("qicontrol: authentication refused: %s", e.Reason)
}

// MissingRequiredCapabilities is returned when the negotiated capability
// set fails the core required-value policy.
type MissingRequiredCapabilities struct {
	Keys []string
}

func (e *MissingRequiredCapabilities) Error() string {
	return fmt.Sprintf("qicontrol: missing required capabilities: %v", e.Keys)
}
