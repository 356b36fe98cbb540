package auth

import (
	"errors"
	"testing"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

func TestRequireScope(t *testing.T) {
	a := NewAuthorizer()

	principal := docs.Principal{Subject: "user-1", Scopes: []string{"revision:read", "revision:write"}}
	if err := a.Require(principal, docs.PermRevisionWrite); err != nil {
		t.Fatalf("expected write to pass: %v", err)
	}
	err := a.Require(principal, docs.PermAssignmentWrite)
	authz, ok := IsAuthzError(err)
	if !ok || authz.Code != "MISSING_SCOPE" {
		t.Fatalf("expected MISSING_SCOPE, got %v", err)
	}
	if !errors.Is(err, docs.ErrForbidden) {
		t.Fatal("authz errors must unwrap to ErrForbidden")
	}
}

func TestRequireAnonymous(t *testing.T) {
	a := NewAuthorizer()
	if err := a.Require(docs.Principal{}, docs.PermRevisionRead); err != docs.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAdminUnlockNeedsAdmin(t *testing.T) {
	a := NewAuthorizer()

	reviewer := docs.Principal{Subject: "user-1", Scopes: []string{"assignment:review"}}
	err := a.Require(reviewer, docs.PermAdminUnlock)
	authz, ok := IsAuthzError(err)
	if !ok || authz.Code != "MISSING_ROLE" {
		t.Fatalf("expected MISSING_ROLE, got %v", err)
	}

	admin := docs.Principal{Subject: "admin-1", Roles: []string{DefaultAdminRole}}
	if err := a.Require(admin, docs.PermAdminUnlock); err != nil {
		t.Fatalf("admin role must pass: %v", err)
	}

	wildcard := docs.Principal{Subject: "svc-1", Scopes: []string{DefaultAdminScope}}
	if err := a.Require(wildcard, docs.PermAdminUnlock); err != nil {
		t.Fatalf("admin scope must pass: %v", err)
	}
	if err := a.Require(wildcard, docs.PermRevisionWrite); err != nil {
		t.Fatalf("admin scope must cover regular permissions: %v", err)
	}
}

func TestAuthzErrorUnwrap(t *testing.T) {
	err := &AuthzError{Code: "MISSING_SCOPE", Err: docs.ErrForbidden}
	if !errors.Is(err, docs.ErrForbidden) {
		t.Fatal("expected ErrForbidden to be unwrapped")
	}
	if _, ok := IsAuthzError(err); !ok {
		t.Fatal("expected IsAuthzError to match")
	}
}
