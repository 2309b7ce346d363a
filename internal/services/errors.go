// Package services defines the business logic of the marketplace: accounts,
// offers, matching, booking and reschedule negotiation, notifications, chats,
// and flashcard decks. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer translates them into HTTP statuses and user-facing messages.
package services

import "errors"

// Account errors.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned on signup or profile edit when the
	// username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrInvalidCredentials is returned by login for an unknown user or a
	// wrong password; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNoLanguages is returned when a profile carries neither a language
	// to teach nor one to learn.
	ErrNoLanguages = errors.New("choose at least one language to teach or to learn")

	// ErrMissingFields is returned when a mandatory attribute is blank.
	ErrMissingFields = errors.New("mandatory fields are missing")
)

// Offer errors.
var (
	// ErrOfferNotFound indicates the requested offer does not exist or is
	// not owned by the acting user.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrGroupSizeRequired is returned when a group offer lacks a maximum
	// group size, or a private offer carries one.
	ErrGroupSizeRequired = errors.New("max group size is required for group offers only")
)

// Booking errors.
var (
	// ErrClassNotFound indicates the requested class does not exist.
	ErrClassNotFound = errors.New("class not found")

	// ErrNotParticipant is returned when the acting user is neither the
	// student nor the teacher of the class.
	ErrNotParticipant = errors.New("not a participant of this class")

	// ErrReschedulePending is returned when proposing a reschedule while a
	// previous proposal is still awaiting a decision.
	ErrReschedulePending = errors.New("a reschedule proposal is already pending")

	// ErrRescheduleNotPending is returned when resolving a reschedule that
	// is absent or already resolved.
	ErrRescheduleNotPending = errors.New("no pending reschedule proposal")

	// ErrRescheduleOwnProposal is returned when the proposal's initiator
	// tries to accept or decline it themselves.
	ErrRescheduleOwnProposal = errors.New("cannot resolve your own reschedule proposal")

	// ErrAlreadyRated is returned when a class is rated a second time.
	ErrAlreadyRated = errors.New("class already rated")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrPaymentNotCompleted is returned when a checkout session is
	// confirmed before the provider reports it paid.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// Chat errors.
var (
	// ErrChatNotFound indicates the requested chat does not exist or the
	// acting user is not a participant.
	ErrChatNotFound = errors.New("chat not found")

	// ErrSelfChat is returned when a user tries to open a chat with
	// themselves.
	ErrSelfChat = errors.New("cannot open a chat with yourself")

	// ErrEmptyMessage is returned for blank message bodies.
	ErrEmptyMessage = errors.New("message body is empty")
)

// Notification errors.
var (
	// ErrNotificationNotFound indicates the notification does not exist or
	// targets another user.
	ErrNotificationNotFound = errors.New("notification not found")
)

// Deck errors.
var (
	// ErrDeckNotFound indicates the requested deck does not exist or is not
	// accessible to the acting user.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the requested flashcard does not exist.
	ErrCardNotFound = errors.New("flashcard not found")

	// ErrCloneOwnDeck is returned when a user clones a deck they own.
	ErrCloneOwnDeck = errors.New("cannot clone your own deck")
)
