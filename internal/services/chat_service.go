package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

// ChatService backs both the HTTP inbox routes and the websocket gateway.
// The gateway's init snapshot and the inbox listing share one loader so the
// two surfaces can never drift.
type ChatService struct {
	DB       *gorm.DB
	Notifier *NotificationService
}

// Participant is the display projection of the other side of a chat.
type Participant struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfilePic   string `json:"profile_pic,omitempty"`
	Professional bool   `json:"professional"`
}

// ChatView is one chat with its full message history and the counterparty's
// display metadata.
type ChatView struct {
	ID            string           `json:"id"`
	Participant   Participant      `json:"participant"`
	Messages      []domain.Message `json:"messages"`
	LastMessageAt time.Time        `json:"last_message_at"`
}

// EnsureChat returns the chat between userID and targetID, creating it on
// first contact. The pair index absorbs concurrent first messages from both
// sides.
func (s *ChatService) EnsureChat(ctx context.Context, userID, targetID string) (*domain.Chat, error) {
	if userID == targetID {
		return nil, ErrSelfChat
	}
	if _, err := repo.GetUser(ctx, s.DB, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	c, err := repo.GetChatByPair(ctx, s.DB, userID, targetID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	c, err = repo.CreateChat(ctx, s.DB, userID, targetID)
	if err != nil {
		if repo.IsDuplicate(err) {
			return repo.GetChatByPair(ctx, s.DB, userID, targetID)
		}
		return nil, err
	}
	return c, nil
}

// ListChatsWithHistory loads every chat of the user with messages in
// conversation order and the counterparty projection, most recently active
// chat first. This is the websocket init snapshot.
func (s *ChatService) ListChatsWithHistory(ctx context.Context, userID string) ([]ChatView, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListChatsWithHistory",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	chats, err := repo.ListChatsByUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(chats))
	for _, c := range chats {
		otherIDs = append(otherIDs, c.OtherParticipant(userID))
	}
	others, err := repo.ListUsersByIDs(ctx, s.DB, otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ChatView, 0, len(chats))
	for _, c := range chats {
		msgs, err := repo.ListMessages(ctx, s.DB, c.ID)
		if err != nil {
			return nil, err
		}
		other := others[c.OtherParticipant(userID)]
		views = append(views, ChatView{
			ID: c.ID,
			Participant: Participant{
				ID:           other.ID,
				Username:     other.Username,
				ProfilePic:   other.ProfilePic,
				Professional: other.Professional,
			},
			Messages:      msgs,
			LastMessageAt: c.LastMessageAt,
		})
	}
	return views, nil
}

// SendMessage persists a message in a chat the sender participates in and
// bumps the chat's activity timestamp. The recipient gets a best-effort
// message notification.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, body string) (*domain.Message, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "SendMessage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", senderID),
		),
	)
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	c, err := repo.GetChat(ctx, s.DB, chatID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !c.HasParticipant(senderID) {
		return nil, ErrChatNotFound
	}
	recipientID := c.OtherParticipant(senderID)

	m, err := repo.CreateMessage(ctx, s.DB, chatID, senderID, recipientID, body)
	if err != nil {
		return nil, err
	}
	if err := repo.TouchChat(ctx, s.DB, chatID, m.CreatedAt); err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, senderID, recipientID, domain.NotifMessage)
	return m, nil
}

// DeleteOwnMessages clears the caller's side of a chat and reports how many
// messages went away.
func (s *ChatService) DeleteOwnMessages(ctx context.Context, chatID, userID string) (int64, error) {
	c, err := repo.GetChat(ctx, s.DB, chatID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrChatNotFound
		}
		return 0, err
	}
	if !c.HasParticipant(userID) {
		return 0, ErrChatNotFound
	}
	return repo.DeleteMessagesBySender(ctx, s.DB, chatID, userID)
}
