// Notification repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// CreateNotification appends an unread notification record.
func CreateNotification(ctx context.Context, db *gorm.DB, sourceID, targetID, typ string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotificationsByTarget returns all notifications aimed at targetID,
// newest first, with the source user preloaded for display.
func ListNotificationsByTarget(ctx context.Context, db *gorm.DB, targetID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Preload("Source").
		Where("target_id = ?", targetID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips the read flag on a notification owned by
// targetID. ErrNotFound when missing or aimed at someone else.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, targetID string) error {
	res := db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND target_id = ?", id, targetID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotification removes a notification owned by targetID.
func DeleteNotification(ctx context.Context, db *gorm.DB, id, targetID string) error {
	res := db.WithContext(ctx).Where("id = ? AND target_id = ?", id, targetID).Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotificationsByUser removes every notification the user sent or
// received; part of the account deletion cascade.
func DeleteNotificationsByUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("target_id = ? OR source_id = ?", userID, userID).
		Delete(&domain.Notification{}).Error
}
