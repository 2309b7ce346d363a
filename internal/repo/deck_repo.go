// Deck and flashcard repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// CreateDeck inserts a new deck.
func CreateDeck(ctx context.Context, db *gorm.DB, d *domain.Deck) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(d).Error
}

// GetDeck fetches a deck by id, or ErrNotFound.
func GetDeck(ctx context.Context, db *gorm.DB, id string) (*domain.Deck, error) {
	var d domain.Deck
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDecksByOwner returns every deck of ownerID, newest first.
func ListDecksByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Deck, error) {
	var out []domain.Deck
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// UpdateDeck rewrites deck attributes for a deck owned by ownerID.
func UpdateDeck(ctx context.Context, db *gorm.DB, ownerID string, d *domain.Deck) error {
	res := db.WithContext(ctx).Model(&domain.Deck{}).
		Where("id = ? AND owner_id = ?", d.ID, ownerID).
		Updates(map[string]any{
			"language": d.Language,
			"level":    d.Level,
			"topic":    d.Topic,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDeck removes a deck and, through the cascade policy enforced at the
// service layer, its flashcards.
func DeleteDeck(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Deck{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateFlashcard inserts a card into a deck.
func CreateFlashcard(ctx context.Context, db *gorm.DB, f *domain.Flashcard) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(f).Error
}

// GetFlashcard fetches a card by id, or ErrNotFound.
func GetFlashcard(ctx context.Context, db *gorm.DB, id string) (*domain.Flashcard, error) {
	var f domain.Flashcard
	if err := db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFlashcardsByDeck returns a deck's cards in study order: highest
// priority first, then oldest first for equal priorities.
func ListFlashcardsByDeck(ctx context.Context, db *gorm.DB, deckID string) ([]domain.Flashcard, error) {
	var out []domain.Flashcard
	err := db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("priority desc, created_at asc").
		Find(&out).Error
	return out, err
}

// UpdateFlashcard rewrites a card's faces and priority.
func UpdateFlashcard(ctx context.Context, db *gorm.DB, f *domain.Flashcard) error {
	res := db.WithContext(ctx).Model(&domain.Flashcard{}).
		Where("id = ?", f.ID).
		Updates(map[string]any{
			"front":    f.Front,
			"back":     f.Back,
			"priority": f.Priority,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFlashcard removes a single card.
func DeleteFlashcard(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Flashcard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFlashcardsByDeck removes every card in a deck.
func DeleteFlashcardsByDeck(ctx context.Context, db *gorm.DB, deckID string) error {
	return db.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&domain.Flashcard{}).Error
}
