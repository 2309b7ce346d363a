// Package services – NotificationService
//
// Notifications are a best-effort fan-in log of domain events. Notify never
// fails the triggering action: a write error is logged and swallowed, which
// means delivery is not guaranteed and that is accepted behavior. Display
// decoration (icon, relative time) is computed at read time by pure
// functions on the notification type and timestamp.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
	"github.com/nvasilas/go-tandem-backend/internal/utils"
)

// NotificationService creates, lists, and mutates notification records.
type NotificationService struct {
	DB *gorm.DB
}

// Notify appends an unread notification from source to target. Errors are
// logged and swallowed; the primary domain action must not roll back because
// an alert could not be written.
func (s *NotificationService) Notify(ctx context.Context, sourceID, targetID, typ string) {
	if _, err := repo.CreateNotification(ctx, s.DB, sourceID, targetID, typ); err != nil {
		log.Error().Err(err).
			Str("source", sourceID).
			Str("target", targetID).
			Str("type", typ).
			Msg("notification write failed")
	}
}

// DecoratedNotification is a notification enriched for display.
type DecoratedNotification struct {
	domain.Notification
	SourceUsername string `json:"source_username"`
	Icon           string `json:"icon"`
	TimeAgo        string `json:"time_ago"`
}

// Inbox is the result of ListFor: the decorated records plus the unread
// count the navigation badge shows.
type Inbox struct {
	Notifications []DecoratedNotification `json:"notifications"`
	Unread        int                     `json:"unread"`
}

// NotificationIcon maps a notification type onto its display icon tag. The
// reschedule family collapses onto one calendar icon.
func NotificationIcon(typ string) string {
	switch typ {
	case domain.NotifReview:
		return "star"
	case domain.NotifBooking:
		return "calendar-plus"
	case domain.NotifCancelStudent, domain.NotifCancelTeacher:
		return "calendar-x"
	case domain.NotifMessage:
		return "envelope"
	case domain.NotifClone:
		return "copy"
	case domain.NotifReschedStudent, domain.NotifReschedTeacher,
		domain.NotifReschedAccepted, domain.NotifReschedDeclined:
		return "calendar-clock"
	default:
		return "bell"
	}
}

// ListFor returns the user's notifications newest first, each decorated with
// the source username, icon tag, and a relative-time string computed against
// now.
func (s *NotificationService) ListFor(ctx context.Context, userID string, now time.Time) (*Inbox, error) {
	rows, err := repo.ListNotificationsByTarget(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	inbox := &Inbox{Notifications: make([]DecoratedNotification, 0, len(rows))}
	for _, n := range rows {
		if !n.Read {
			inbox.Unread++
		}
		inbox.Notifications = append(inbox.Notifications, DecoratedNotification{
			Notification:   n,
			SourceUsername: n.Source.Username,
			Icon:           NotificationIcon(n.Type),
			TimeAgo:        utils.TimeAgo(n.CreatedAt, now),
		})
	}
	return inbox, nil
}

// MarkRead flips the read flag on a notification owned by userID.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := repo.MarkNotificationRead(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Delete removes a notification owned by userID.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := repo.DeleteNotification(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
