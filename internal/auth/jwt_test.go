package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", 7, "marta", "manager")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken("test-secret", token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user ID 7, got %d", claims.UserID)
	}
	if claims.Username != "marta" {
		t.Errorf("expected username marta, got %q", claims.Username)
	}
	if claims.Role != "manager" {
		t.Errorf("expected role manager, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Errorf("expected a non-empty JTI")
	}
}

func TestTokensHaveUniqueJTI(t *testing.T) {
	a, err := GenerateToken("test-secret", 1, "a", "cashier")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	b, err := GenerateToken("test-secret", 1, "a", "cashier")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	ca, _ := ValidateToken("test-secret", a)
	cb, _ := ValidateToken("test-secret", b)
	if ca.ID == cb.ID {
		t.Errorf("expected distinct JTIs, both %q", ca.ID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", 1, "a", "cashier")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Errorf("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("test-secret", "not.a.token"); err == nil {
		t.Errorf("expected error for malformed token")
	}
}
