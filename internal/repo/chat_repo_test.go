package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: "x",
		LearnLangs:   domain.LangList{"es"},
	}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func TestChat_PairIsUnordered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	c, err := CreateChat(ctx, db, b.ID, a.ID) // reversed order on purpose
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	got, err := GetChatByPair(ctx, db, a.ID, b.ID)
	if err != nil {
		t.Fatalf("GetChatByPair: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("pair lookup returned %s, want %s", got.ID, c.ID)
	}

	// A second chat for the same unordered pair must violate the index.
	if _, err := CreateChat(ctx, db, a.ID, b.ID); !IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestChat_ListOrderedByActivity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")

	chatAB, err := CreateChat(ctx, db, a.ID, b.ID)
	if err != nil {
		t.Fatalf("CreateChat AB: %v", err)
	}
	chatAC, err := CreateChat(ctx, db, a.ID, c.ID)
	if err != nil {
		t.Fatalf("CreateChat AC: %v", err)
	}

	// Activity makes AB the most recent chat.
	if err := TouchChat(ctx, db, chatAC.ID, time.Now().UTC().Add(-time.Hour)); err != nil {
		t.Fatalf("TouchChat AC: %v", err)
	}
	if err := TouchChat(ctx, db, chatAB.ID, time.Now().UTC()); err != nil {
		t.Fatalf("TouchChat AB: %v", err)
	}

	chats, err := ListChatsByUser(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("ListChatsByUser: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("len(chats) = %d, want 2", len(chats))
	}
	if chats[0].ID != chatAB.ID {
		t.Fatalf("most recent chat = %s, want %s", chats[0].ID, chatAB.ID)
	}

	// b sees only the one chat they participate in.
	bChats, err := ListChatsByUser(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("ListChatsByUser(b): %v", err)
	}
	if len(bChats) != 1 || bChats[0].ID != chatAB.ID {
		t.Fatalf("b's chats = %+v", bChats)
	}
}

func TestMessages_OrderAndScopedDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	chat, err := CreateChat(ctx, db, a.ID, b.ID)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if _, err := CreateMessage(ctx, db, chat.ID, a.ID, b.ID, "hola"); err != nil {
		t.Fatalf("CreateMessage 1: %v", err)
	}
	if _, err := CreateMessage(ctx, db, chat.ID, b.ID, a.ID, "hello"); err != nil {
		t.Fatalf("CreateMessage 2: %v", err)
	}
	if _, err := CreateMessage(ctx, db, chat.ID, a.ID, b.ID, "que tal"); err != nil {
		t.Fatalf("CreateMessage 3: %v", err)
	}

	msgs, err := ListMessages(ctx, db, chat.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs) = %d, want 3", len(msgs))
	}
	if msgs[0].Body != "hola" || msgs[2].Body != "que tal" {
		t.Fatalf("messages out of order: %q .. %q", msgs[0].Body, msgs[2].Body)
	}

	// Deleting a's messages leaves b's untouched.
	n, err := DeleteMessagesBySender(ctx, db, chat.ID, a.ID)
	if err != nil {
		t.Fatalf("DeleteMessagesBySender: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d rows, want 2", n)
	}
	left, _ := ListMessages(ctx, db, chat.ID)
	if len(left) != 1 || left[0].SenderID != b.ID {
		t.Fatalf("remaining messages = %+v", left)
	}
}

func TestChat_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := GetChat(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetChat: got %v, want ErrNotFound", err)
	}
	if err := TouchChat(ctx, db, "missing", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TouchChat: got %v, want ErrNotFound", err)
	}
}
