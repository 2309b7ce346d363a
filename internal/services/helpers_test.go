package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", time.Hour)
}

// seedUser inserts a user with the given username and language sets.
func seedUser(t *testing.T, db *gorm.DB, username string, teach, learn []string, mut ...func(*domain.User)) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Birthdate:    "01-01-1990",
		Country:      "GR",
		TeachLangs:   teach,
		LearnLangs:   learn,
	}
	for _, m := range mut {
		m(u)
	}
	if err := repo.CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// seedOffer inserts a private one-hour offer owned by ownerID.
func seedOffer(t *testing.T, db *gorm.DB, ownerID, lang string) *domain.Offer {
	t.Helper()
	o := &domain.Offer{
		OwnerID:      ownerID,
		Name:         "Conversation practice",
		Language:     lang,
		Level:        "B2",
		LocationType: domain.LocationOnline,
		Duration:     60,
		ClassType:    domain.ClassTypePrivate,
		Price:        25,
	}
	if err := repo.CreateOffer(context.Background(), db, o); err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return o
}

// notificationsFor returns the notifications targeting userID, oldest first.
func notificationsFor(t *testing.T, db *gorm.DB, userID string) []domain.Notification {
	t.Helper()
	var out []domain.Notification
	if err := db.Where("target_id = ?", userID).Order("created_at asc").Find(&out).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return out
}
