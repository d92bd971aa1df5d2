package security

import (
	"strings"
	"testing"

	"bazario/api/internal/models"
)

func TestUserActivationTokenRoundTrip(t *testing.T) {
	pending := models.PendingUser{
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$fakehash",
		AvatarKey:    "abc.png",
	}

	token, err := IssueUserActivationToken(testSecret, pending)
	if err != nil {
		t.Fatalf("IssueUserActivationToken: %v", err)
	}

	got, err := ParseUserActivationToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseUserActivationToken: %v", err)
	}
	if got != pending {
		t.Fatalf("decoded payload = %+v, want %+v", got, pending)
	}
}

func TestShopActivationTokenRoundTrip(t *testing.T) {
	pending := models.PendingShop{
		Name:         "Ada's Shop",
		OwnerName:    "Ada",
		Email:        "shop@example.com",
		PasswordHash: "$2a$10$fakehash",
		PhoneNumber:  "123456",
		Address:      "1 Main St",
		ZipCode:      "90210",
	}

	token, err := IssueShopActivationToken(testSecret, pending)
	if err != nil {
		t.Fatalf("IssueShopActivationToken: %v", err)
	}

	got, err := ParseShopActivationToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseShopActivationToken: %v", err)
	}
	if got != pending {
		t.Fatalf("decoded payload = %+v, want %+v", got, pending)
	}
}

func TestActivationTokenTamperRejected(t *testing.T) {
	token, err := IssueUserActivationToken(testSecret, models.PendingUser{Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("IssueUserActivationToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := ParseUserActivationToken(tampered, testSecret); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestActivationTokenWrongSecret(t *testing.T) {
	token, err := IssueShopActivationToken(testSecret, models.PendingShop{Email: "shop@example.com"})
	if err != nil {
		t.Fatalf("IssueShopActivationToken: %v", err)
	}

	if _, err := ParseShopActivationToken(token, "other-secret"); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
