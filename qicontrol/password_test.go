package qicontrol

import (
	"context"
	"testing"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qivalue"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordAuthenticatorAcceptsCorrectCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	server := NewServerState(fullLocalCapabilities(), PasswordAuthenticator(map[string][]byte{"alice": hash}))

	clientLocal := fullLocalCapabilities()
	clientLocal.Set("auth_user", qivalue.String("alice"))
	clientLocal.Set("auth_password", qivalue.String("hunter2"))

	if _, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal); err != nil {
		t.Fatalf("ClientHandshake: %v", err)
	}
	if !server.IsAuthenticated() {
		t.Fatal("expected server to be authenticated")
	}
}

func TestPasswordAuthenticatorRejectsWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	server := NewServerState(fullLocalCapabilities(), PasswordAuthenticator(map[string][]byte{"alice": hash}))

	clientLocal := fullLocalCapabilities()
	clientLocal.Set("auth_user", qivalue.String("alice"))
	clientLocal.Set("auth_password", qivalue.String("wrong"))

	_, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if server.IsAuthenticated() {
		t.Fatal("server should not be authenticated")
	}
}
