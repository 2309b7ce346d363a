// Chat and message repository.
//
// Chats store their two participants in lexical order so the pair index is
// order-insensitive; normalizePair is applied on every lookup and insert.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// normalizePair returns the two user ids in lexical order.
func normalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// GetChat fetches a chat by id, or ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChatByPair fetches the chat between two users regardless of argument
// order, or ErrNotFound.
func GetChatByPair(ctx context.Context, db *gorm.DB, userA, userB string) (*domain.Chat, error) {
	a, b := normalizePair(userA, userB)
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", a, b).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChat inserts a chat for the given unordered pair. A concurrent
// insert of the same pair trips the unique index (see IsDuplicate).
func CreateChat(ctx context.Context, db *gorm.DB, userA, userB string) (*domain.Chat, error) {
	a, b := normalizePair(userA, userB)
	c := &domain.Chat{
		ID:            uuid.NewString(),
		ParticipantA:  a,
		ParticipantB:  b,
		LastMessageAt: time.Now().UTC(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChatsByUser returns every chat the user participates in, most recently
// active first.
func ListChatsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at desc").
		Find(&out).Error
	return out, err
}

// TouchChat bumps the chat's last-activity timestamp.
func TouchChat(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", id).Update("last_message_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMessage appends a message to a chat. CreatedAt is assigned here;
// message order within a chat is creation order.
func CreateMessage(ctx context.Context, db *gorm.DB, chatID, senderID, recipientID, body string) (*domain.Message, error) {
	m := &domain.Message{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a chat's messages in conversation order.
func ListMessages(ctx context.Context, db *gorm.DB, chatID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CountMessages returns the number of messages in a chat.
func CountMessages(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&n).Error
	return n, err
}

// DeleteMessagesBySender removes from one chat only the messages authored by
// senderID. This is the scope of the "clear my side" inbox action.
func DeleteMessagesBySender(ctx context.Context, db *gorm.DB, chatID, senderID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("chat_id = ? AND sender_id = ?", chatID, senderID).
		Delete(&domain.Message{})
	return res.RowsAffected, res.Error
}
