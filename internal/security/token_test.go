package security

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "acct-1", "Ada", "customer", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	claims, err := ParseSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.AccountID != "acct-1" {
		t.Fatalf("AccountID = %q, want %q", claims.AccountID, "acct-1")
	}
	if claims.Name != "Ada" {
		t.Fatalf("Name = %q, want %q", claims.Name, "Ada")
	}
	if claims.Role != "customer" {
		t.Fatalf("Role = %q, want %q", claims.Role, "customer")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "acct-1", "Ada", "customer", -time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	if _, err := ParseSessionToken(token, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "acct-1", "Ada", "customer", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	if _, err := ParseSessionToken(token, "other-secret"); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
