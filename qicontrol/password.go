package qicontrol

import (
	"fmt"

	"github.com/aldebaran/qimessaging/qicapability"
	"golang.org/x/crypto/bcrypt"
)

// PasswordAuthenticator builds an Authenticator checking the
// auth_user/auth_password capability entries against a bcrypt hash
// registered for that user. Unknown users and hash mismatches both
// refuse with a generic reason, never revealing which one failed.
func PasswordAuthenticator(hashedPasswords map[string][]byte) Authenticator {
	return func(params *qicapability.Map) error {
		userV, ok := params.Get("user")
		if !ok || userV.S == "" {
			return fmt.Errorf("qicontrol: missing auth_user")
		}
		passV, ok := params.Get("password")
		if !ok {
			return fmt.Errorf("qicontrol: missing auth_password")
		}

		hash, ok := hashedPasswords[userV.S]
		if !ok {
			return fmt.Errorf("qicontrol: authentication failed")
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(passV.S)); err != nil {
			return fmt.Errorf("qicontrol: authentication failed")
		}
		return nil
	}
}
