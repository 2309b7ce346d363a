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

// OfferService manages a teacher's published lesson offers.
type OfferService struct {
	DB *gorm.DB
}

// OfferInput carries the editable attributes of an offer.
type OfferInput struct {
	Name         string  `json:"name"`
	Language     string  `json:"language"`
	Level        string  `json:"level"`
	LocationType string  `json:"location_type"`
	Location     string  `json:"location"`
	Duration     int     `json:"duration"`
	ClassType    string  `json:"class_type"`
	MaxGroupSize int     `json:"max_group_size"`
	Price        float64 `json:"price"`
}

func validateOffer(in *OfferInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Language = normalizeLang(in.Language)
	if in.Name == "" || in.Language == "" || in.Level == "" ||
		in.LocationType == "" || in.ClassType == "" ||
		in.Duration <= 0 || in.Price <= 0 {
		return ErrMissingFields
	}
	switch in.ClassType {
	case domain.ClassTypeGroup:
		if in.MaxGroupSize < 2 {
			return ErrGroupSizeRequired
		}
	case domain.ClassTypePrivate:
		if in.MaxGroupSize != 0 {
			return ErrGroupSizeRequired
		}
	default:
		return ErrMissingFields
	}
	return nil
}

// Create publishes a new offer owned by ownerID.
func (s *OfferService) Create(ctx context.Context, ownerID string, in OfferInput) (*domain.Offer, error) {
	if err := validateOffer(&in); err != nil {
		return nil, err
	}
	o := &domain.Offer{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         in.Name,
		Language:     in.Language,
		Level:        in.Level,
		LocationType: in.LocationType,
		Location:     in.Location,
		Duration:     in.Duration,
		ClassType:    in.ClassType,
		MaxGroupSize: in.MaxGroupSize,
		Price:        in.Price,
	}
	if err := repo.CreateOffer(ctx, s.DB, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns one offer by id.
func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	o, err := repo.GetOffer(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListByOwner returns the offers published by the given user.
func (s *OfferService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Offer, error) {
	return repo.ListOffersByOwner(ctx, s.DB, ownerID)
}

// Update rewrites an offer the caller owns. Booked classes keep their
// snapshotted terms.
func (s *OfferService) Update(ctx context.Context, ownerID, id string, in OfferInput) (*domain.Offer, error) {
	if err := validateOffer(&in); err != nil {
		return nil, err
	}
	o := &domain.Offer{
		ID:           id,
		OwnerID:      ownerID,
		Name:         in.Name,
		Language:     in.Language,
		Level:        in.Level,
		LocationType: in.LocationType,
		Location:     in.Location,
		Duration:     in.Duration,
		ClassType:    in.ClassType,
		MaxGroupSize: in.MaxGroupSize,
		Price:        in.Price,
	}
	if err := repo.UpdateOffer(ctx, s.DB, ownerID, o); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return o, nil
}

// Delete removes an offer the caller owns.
func (s *OfferService) Delete(ctx context.Context, ownerID, id string) error {
	if err := repo.DeleteOffer(ctx, s.DB, ownerID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	return nil
}
