package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

// DeckService manages flashcard decks: owner-scoped CRUD, the study queue,
// priority updates, and cloning another user's deck.
type DeckService struct {
	DB       *gorm.DB
	Notifier *NotificationService
}

// DeckInput carries the editable attributes of a deck.
type DeckInput struct {
	Language string `json:"language"`
	Level    string `json:"level"`
	Topic    string `json:"topic"`
}

func (in *DeckInput) validate() error {
	in.Language = normalizeLang(in.Language)
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Language == "" || in.Level == "" || in.Topic == "" {
		return ErrMissingFields
	}
	return nil
}

// CreateDeck creates an empty deck for ownerID.
func (s *DeckService) CreateDeck(ctx context.Context, ownerID string, in DeckInput) (*domain.Deck, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d := &domain.Deck{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Language: in.Language,
		Level:    in.Level,
		Topic:    in.Topic,
	}
	if err := repo.CreateDeck(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDecks returns the user's decks.
func (s *DeckService) ListDecks(ctx context.Context, ownerID string) ([]domain.Deck, error) {
	return repo.ListDecksByOwner(ctx, s.DB, ownerID)
}

// GetDeck loads a deck the caller owns together with its cards in study
// order: highest priority first, mastered cards (sentinel priority) last.
func (s *DeckService) GetDeck(ctx context.Context, ownerID, id string) (*domain.Deck, []domain.Flashcard, error) {
	d, err := s.ownedDeck(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	cards, err := repo.ListFlashcardsByDeck(ctx, s.DB, id)
	if err != nil {
		return nil, nil, err
	}
	return d, cards, nil
}

// UpdateDeck rewrites a deck's attributes.
func (s *DeckService) UpdateDeck(ctx context.Context, ownerID, id string, in DeckInput) (*domain.Deck, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d := &domain.Deck{ID: id, OwnerID: ownerID, Language: in.Language, Level: in.Level, Topic: in.Topic}
	if err := repo.UpdateDeck(ctx, s.DB, ownerID, d); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return d, nil
}

// DeleteDeck removes a deck and all of its cards in one transaction.
func (s *DeckService) DeleteDeck(ctx context.Context, ownerID, id string) error {
	if _, err := s.ownedDeck(ctx, ownerID, id); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteFlashcardsByDeck(ctx, tx, id); err != nil {
			return err
		}
		return repo.DeleteDeck(ctx, tx, id)
	})
}

// CardInput carries the editable attributes of a flashcard.
type CardInput struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Priority int    `json:"priority"`
}

// AddCard appends a card to a deck the caller owns.
func (s *DeckService) AddCard(ctx context.Context, ownerID, deckID string, in CardInput) (*domain.Flashcard, error) {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if in.Front == "" || in.Back == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.ownedDeck(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	f := &domain.Flashcard{
		ID:       uuid.NewString(),
		DeckID:   deckID,
		Front:    in.Front,
		Back:     in.Back,
		Priority: in.Priority,
	}
	if err := repo.CreateFlashcard(ctx, s.DB, f); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateCard rewrites a card in a deck the caller owns. Setting priority to
// the mastered sentinel retires the card from the study queue.
func (s *DeckService) UpdateCard(ctx context.Context, ownerID, cardID string, in CardInput) (*domain.Flashcard, error) {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if in.Front == "" || in.Back == "" {
		return nil, ErrMissingFields
	}
	f, err := s.ownedCard(ctx, ownerID, cardID)
	if err != nil {
		return nil, err
	}
	f.Front = in.Front
	f.Back = in.Back
	f.Priority = in.Priority
	if err := repo.UpdateFlashcard(ctx, s.DB, f); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return f, nil
}

// DeleteCard removes a card from a deck the caller owns.
func (s *DeckService) DeleteCard(ctx context.Context, ownerID, cardID string) error {
	if _, err := s.ownedCard(ctx, ownerID, cardID); err != nil {
		return err
	}
	if err := repo.DeleteFlashcard(ctx, s.DB, cardID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	return nil
}

// Study returns the cards of an owned deck that are still in rotation,
// highest priority first.
func (s *DeckService) Study(ctx context.Context, ownerID, deckID string) ([]domain.Flashcard, error) {
	if _, err := s.ownedDeck(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	cards, err := repo.ListFlashcardsByDeck(ctx, s.DB, deckID)
	if err != nil {
		return nil, err
	}
	queue := cards[:0]
	for _, f := range cards {
		if f.Priority != domain.PriorityMastered {
			queue = append(queue, f)
		}
	}
	return queue, nil
}

// Clone copies another user's deck, cards included, to the caller. Every
// copied card restarts at priority zero so the clone begins unstudied. The
// deck's owner gets one clone notification regardless of card count.
func (s *DeckService) Clone(ctx context.Context, userID, deckID string) (*domain.Deck, error) {
	src, err := repo.GetDeck(ctx, s.DB, deckID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if src.OwnerID == userID {
		return nil, ErrCloneOwnDeck
	}
	cards, err := repo.ListFlashcardsByDeck(ctx, s.DB, deckID)
	if err != nil {
		return nil, err
	}

	clone := &domain.Deck{
		ID:       uuid.NewString(),
		OwnerID:  userID,
		Language: src.Language,
		Level:    src.Level,
		Topic:    src.Topic,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateDeck(ctx, tx, clone); err != nil {
			return err
		}
		for _, f := range cards {
			dup := &domain.Flashcard{
				ID:     uuid.NewString(),
				DeckID: clone.ID,
				Front:  f.Front,
				Back:   f.Back,
			}
			if err := repo.CreateFlashcard(ctx, tx, dup); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, userID, src.OwnerID, domain.NotifClone)
	return clone, nil
}

func (s *DeckService) ownedDeck(ctx context.Context, ownerID, id string) (*domain.Deck, error) {
	d, err := repo.GetDeck(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, ErrDeckNotFound
	}
	return d, nil
}

func (s *DeckService) ownedCard(ctx context.Context, ownerID, cardID string) (*domain.Flashcard, error) {
	f, err := repo.GetFlashcard(ctx, s.DB, cardID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if _, err := s.ownedDeck(ctx, ownerID, f.DeckID); err != nil {
		return nil, ErrCardNotFound
	}
	return f, nil
}
