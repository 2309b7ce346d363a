package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	return &AccountService{DB: newTestDB(t), Issuer: testIssuer(), BcryptCost: bcrypt.MinCost}
}

func validSignup() SignupInput {
	return SignupInput{
		Username:   "maria",
		Email:      "Maria@Example.com",
		Password:   "Str0ngpass",
		Birthdate:  "12-03-1992",
		Country:    "ES",
		TeachLangs: []string{"es"},
		LearnLangs: []string{"de"},
	}
}

func TestAccountService_SignupAndLogin(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	u, err := s.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "maria@example.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if u.PasswordHash == "Str0ngpass" || u.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}

	got, token, err := s.Login(ctx, "maria", "Str0ngpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("login returned user %q, token %q", got.ID, token)
	}

	if _, _, err := s.Login(ctx, "maria", "wrongpass1A"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := s.Login(ctx, "nobody", "Str0ngpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAccountService_SignupValidation(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		mut  func(*SignupInput)
		want error
	}{
		{"missing username", func(in *SignupInput) { in.Username = " " }, ErrMissingFields},
		{"missing country", func(in *SignupInput) { in.Country = "" }, ErrMissingFields},
		{"weak password", func(in *SignupInput) { in.Password = "alllower1" }, auth.ErrWeakPassword},
		{"no languages", func(in *SignupInput) { in.TeachLangs = nil; in.LearnLangs = nil }, ErrNoLanguages},
		{"only invalid codes", func(in *SignupInput) {
			in.TeachLangs = []string{"!!"}
			in.LearnLangs = nil
		}, ErrNoLanguages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSignup()
			tt.mut(&in)
			if _, err := s.Signup(ctx, in); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAccountService_SignupDuplicate(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	dup := validSignup()
	dup.Email = "other@example.com"
	if _, err := s.Signup(ctx, dup); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("duplicate username: got %v, want ErrDuplicateUser", err)
	}
	dup = validSignup()
	dup.Username = "maria2"
	if _, err := s.Signup(ctx, dup); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("duplicate email: got %v, want ErrDuplicateUser", err)
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	u, err := s.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	got, err := s.UpdateProfile(ctx, u.ID, ProfileInput{
		Username:     "maria",
		Email:        "maria@example.com",
		Birthdate:    "12-03-1992",
		Country:      "PT",
		TeachLangs:   []string{"es", "pt"},
		LearnLangs:   []string{"de"},
		Professional: true,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Country != "PT" || !got.Professional || len(got.TeachLangs) != 2 {
		t.Fatalf("profile not updated: %+v", got)
	}
	// Empty picture input keeps the stored value.
	if got.ProfilePic != u.ProfilePic {
		t.Fatalf("profile pic overwritten: %q", got.ProfilePic)
	}
}

func TestAccountService_DeleteCascades(t *testing.T) {
	s := newAccountService(t)
	ctx := context.Background()

	u, err := s.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	seedOffer(t, s.DB, u.ID, "es")
	decks := &DeckService{DB: s.DB, Notifier: &NotificationService{DB: s.DB}}
	d, err := decks.CreateDeck(ctx, u.ID, DeckInput{Language: "de", Level: "A1", Topic: "Food"})
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if _, err := decks.AddCard(ctx, u.ID, d.ID, CardInput{Front: "Brot", Back: "bread"}); err != nil {
		t.Fatalf("add card: %v", err)
	}

	if err := s.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := repo.GetUser(ctx, s.DB, u.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	offers, err := repo.ListOffersByOwner(ctx, s.DB, u.ID)
	if err != nil || len(offers) != 0 {
		t.Fatalf("offers not cascaded: %v %d", err, len(offers))
	}
	if _, err := repo.GetDeck(ctx, s.DB, d.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("deck not cascaded: %v", err)
	}
}
