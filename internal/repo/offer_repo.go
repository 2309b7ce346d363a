// Offer repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
)

// CreateOffer inserts a new offer owned by o.OwnerID.
func CreateOffer(ctx context.Context, db *gorm.DB, o *domain.Offer) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(o).Error
}

// GetOffer fetches an offer by id, or ErrNotFound.
func GetOffer(ctx context.Context, db *gorm.DB, id string) (*domain.Offer, error) {
	var o domain.Offer
	if err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOffersByOwner returns all offers owned by ownerID, newest first.
func ListOffersByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListOffersByOwners returns the offers of all given owners grouped by owner
// id. Used by teacher matching to check offer languages in one query.
func ListOffersByOwners(ctx context.Context, db *gorm.DB, ownerIDs []string) (map[string][]domain.Offer, error) {
	out := make(map[string][]domain.Offer, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	var rows []domain.Offer
	if err := db.WithContext(ctx).Where("owner_id IN ?", ownerIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, o := range rows {
		out[o.OwnerID] = append(out[o.OwnerID], o)
	}
	return out, nil
}

// UpdateOffer rewrites the mutable columns of an offer owned by ownerID.
// Returns ErrNotFound when the offer is missing or owned by someone else.
func UpdateOffer(ctx context.Context, db *gorm.DB, ownerID string, o *domain.Offer) error {
	res := db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ? AND owner_id = ?", o.ID, ownerID).
		Updates(map[string]any{
			"name":           o.Name,
			"language":       o.Language,
			"level":          o.Level,
			"location_type":  o.LocationType,
			"location":       o.Location,
			"duration":       o.Duration,
			"class_type":     o.ClassType,
			"max_group_size": o.MaxGroupSize,
			"price":          o.Price,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOffer removes an offer owned by ownerID; existing classes booked from
// it are intentionally untouched.
func DeleteOffer(ctx context.Context, db *gorm.DB, ownerID, id string) error {
	res := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Offer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOffersByOwner removes every offer the owner has; part of the account
// deletion cascade.
func DeleteOffersByOwner(ctx context.Context, db *gorm.DB, ownerID string) error {
	return db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Offer{}).Error
}
