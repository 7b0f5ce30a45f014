package service

import "testing"

func TestLoginOperatorIDStableAcrossSessions(t *testing.T) {
	svc := NewAuthService()

	first, err := svc.Login("admin", "password123")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login("admin", "password123")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.OperatorID != second.OperatorID {
		t.Fatalf("operator id changed across logins: %q vs %q", first.OperatorID, second.OperatorID)
	}
	if first.OperatorID != OperatorID("admin") {
		t.Errorf("expected id derived from username, got %q", first.OperatorID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService()

	if _, err := svc.Login("admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody", "password123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateOperatorTokenRoundTrip(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateOperatorToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.OperatorID != resp.OperatorID {
		t.Errorf("claims operator id %q, want %q", claims.OperatorID, resp.OperatorID)
	}

	if _, err := svc.ValidateOperatorToken("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
