package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitetrack/internal/config"
	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/policy"
	"sitetrack/internal/visibility"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func TestDeletedEmailCanRegisterAgain(t *testing.T) {
	db := newTestDB(t)
	hub := newTestHub(t)
	auth := NewAuthService(db, testAuthConfig(), hub)
	users := NewUserService(db, hub, visibility.NewResolver(db), policy.Default())
	admin := seedUser(t, db, models.RoleAdmin)

	req := &dto.RegisterRequest{Email: "worker@example.com", Password: "longenough1", Name: "Worker"}
	if _, err := auth.Register(context.Background(), req); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	var first models.User
	if err := db.First(&first, "email = ?", req.Email).Error; err != nil {
		t.Fatalf("load first profile: %v", err)
	}
	if err := users.Delete(context.Background(), admin, first.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	// Deletion removes only the profile; the same identity must be able
	// to sign up again and lands back in the pending state.
	if _, err := auth.Register(context.Background(), req); err != nil {
		t.Fatalf("re-registration after profile deletion: %v", err)
	}
	var second models.User
	if err := db.First(&second, "email = ?", req.Email).Error; err != nil {
		t.Fatalf("load re-provisioned profile: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("re-registration resurrected the deleted profile row")
	}
	if second.Role != models.RolePending {
		t.Fatalf("re-provisioned profile should be pending, got %q", second.Role)
	}
}

func TestRegisterRejectsLiveDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, testAuthConfig(), newTestHub(t))

	req := &dto.RegisterRequest{Email: "dup@example.com", Password: "longenough1", Name: "Dup"}
	if _, err := auth.Register(context.Background(), req); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := auth.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email-taken error, got %v", err)
	}
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, newTestHub(t), visibility.NewResolver(db), policy.Default())
	admin := seedUser(t, db, models.RoleAdmin)

	err := users.Delete(context.Background(), admin, admin.ID)
	if !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("expected self-deletion refusal, got %v", err)
	}
}
