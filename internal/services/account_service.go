// Package services – AccountService
//
// This file implements the AccountService, which owns the user lifecycle:
// signup with credential and language validation, login issuing a bearer
// token, profile reads and edits, and account deletion with an explicit
// cascade policy (owned offers, decks and their cards, and notifications are
// removed; chats and messages are deliberately retained so the counterpart
// keeps their history).
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

// AccountService implements signup, login, profile management, and account
// deletion.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Issuer mints bearer tokens at login.
	Issuer *auth.TokenIssuer
	// BcryptCost is the work factor for new password hashes.
	BcryptCost int
}

// SignupInput carries the attributes collected at registration.
type SignupInput struct {
	Username     string
	Email        string
	Password     string
	Gender       string
	Birthdate    string
	Country      string
	TeachLangs   []string
	LearnLangs   []string
	Private      bool
	Professional bool
}

// Signup validates the input, hashes the password, and creates the user.
//
// Validation:
//   - username, email, password, birthdate, country are mandatory
//     (ErrMissingFields);
//   - the password must satisfy the strength policy (auth.ErrWeakPassword);
//   - at least one of teaches/learns must survive language normalization
//     (ErrNoLanguages);
//   - duplicate username or email yields ErrDuplicateUser.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Birthdate == "" || in.Country == "" {
		return nil, ErrMissingFields
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	teach := normalizeLangs(in.TeachLangs)
	learn := normalizeLangs(in.LearnLangs)
	if len(teach) == 0 && len(learn) == 0 {
		return nil, ErrNoLanguages
	}

	hash, err := auth.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       in.Gender,
		Birthdate:    in.Birthdate,
		Country:      in.Country,
		TeachLangs:   teach,
		LearnLangs:   learn,
		Private:      in.Private,
		Professional: in.Professional,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and returns the user along with a freshly
// minted bearer token. Unknown usernames and wrong passwords are both
// reported as ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.Issuer.Mint(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Get returns a user by id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername returns a user's public profile by username.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ProfileInput carries the editable profile attributes.
type ProfileInput struct {
	Username     string
	Email        string
	Gender       string
	Birthdate    string
	Country      string
	ProfilePic   string
	TeachLangs   []string
	LearnLangs   []string
	Private      bool
	Professional bool
}

// UpdateProfile rewrites the user's profile, enforcing the same mandatory
// field and language invariants as signup.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Birthdate == "" || in.Country == "" {
		return nil, ErrMissingFields
	}
	teach := normalizeLangs(in.TeachLangs)
	learn := normalizeLangs(in.LearnLangs)
	if len(teach) == 0 && len(learn) == 0 {
		return nil, ErrNoLanguages
	}

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.Username = in.Username
	u.Email = in.Email
	u.Gender = in.Gender
	u.Birthdate = in.Birthdate
	u.Country = in.Country
	if in.ProfilePic != "" {
		u.ProfilePic = in.ProfilePic
	}
	u.TeachLangs = teach
	u.LearnLangs = learn
	u.Private = in.Private
	u.Professional = in.Professional

	if err := repo.UpdateUser(ctx, s.DB, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrDuplicateUser
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the account and applies the cascade policy in a single
// transaction: owned offers, decks with their flashcards, and notifications
// the user sent or received. Chats and messages stay behind.
func (s *AccountService) Delete(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decks, err := repo.ListDecksByOwner(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, d := range decks {
			if err := repo.DeleteFlashcardsByDeck(ctx, tx, d.ID); err != nil {
				return err
			}
			if err := repo.DeleteDeck(ctx, tx, d.ID); err != nil {
				return err
			}
		}
		if err := repo.DeleteOffersByOwner(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteNotificationsByUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteUser(ctx, tx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
}
