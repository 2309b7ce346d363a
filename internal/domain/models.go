// Package domain defines the persistence models for the language-exchange
// marketplace: users with their teach/learn language sets, bookable offers,
// scheduled classes with reschedule negotiation, chats and messages, reviews,
// notifications, and flashcard decks. These types are mapped with GORM and
// form the core data layer of the application.
package domain

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"
)

// LangList is a set of language codes persisted as a single comma-separated
// column. Order is not meaningful; duplicates are not stored by the services
// that write it.
type LangList []string

// Value implements driver.Valuer, serializing the list as "es,fr,de".
func (l LangList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner for string and []byte column values.
func (l *LangList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return errors.New("domain: unsupported source type for LangList")
	}
	if strings.TrimSpace(s) == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(LangList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}

// Contains reports whether the list holds code.
func (l LangList) Contains(code string) bool {
	for _, c := range l {
		if c == code {
			return true
		}
	}
	return false
}

// Intersect returns the elements of l that are also present in other,
// preserving l's order.
func (l LangList) Intersect(other LangList) LangList {
	var out LangList
	for _, c := range l {
		if other.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// User is a marketplace member. A user advertises the languages they can
// teach and the ones they want to learn; at least one of the two sets must
// be non-empty (enforced by the account service, not the schema).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username / Email: unique identity attributes.
//   - PasswordHash: bcrypt digest; never serialized.
//   - TeachLangs / LearnLangs: language code sets (CSV-backed).
//   - Private: hides the profile from partner matching.
//   - Professional: marks the user as a bookable teacher.
type User struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username"      gorm:"type:varchar(64);not null;uniqueIndex"`
	Email        string    `json:"email"         gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"             gorm:"type:varchar(128);not null"`
	Gender       string    `json:"gender,omitempty"      gorm:"type:varchar(32)"`
	Birthdate    string    `json:"birthdate"     gorm:"type:varchar(16)"`
	Country      string    `json:"country"       gorm:"type:varchar(64)"`
	ProfilePic   string    `json:"profile_pic,omitempty" gorm:"type:varchar(255)"`
	TeachLangs   LangList  `json:"teach_langs"   gorm:"type:text"`
	LearnLangs   LangList  `json:"learn_langs"   gorm:"type:text"`
	Private      bool      `json:"private"       gorm:"not null;default:false"`
	Professional bool      `json:"professional"  gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Location types for an offer.
const (
	LocationOnline    = "online"
	LocationAtStudent = "at-student"
	LocationAtTeacher = "at-teacher"
)

// Class types for an offer.
const (
	ClassTypePrivate = "private"
	ClassTypeGroup   = "group"
)

// Offer is a teacher's published, bookable lesson template. MaxGroupSize is
// meaningful only when ClassType is "group"; the offer service enforces
// that coupling.
type Offer struct {
	ID           string    `json:"id"             gorm:"type:char(36);primaryKey"`
	OwnerID      string    `json:"owner_id"       gorm:"type:char(36);not null;index:idx_owner_offers"`
	Name         string    `json:"name"           gorm:"type:varchar(255);not null"`
	Language     string    `json:"language"       gorm:"type:varchar(16);not null"`
	Level        string    `json:"level"          gorm:"type:varchar(32);not null"`
	LocationType string    `json:"location_type"  gorm:"type:varchar(16);not null"`
	Location     string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	Duration     int       `json:"duration"       gorm:"not null"`
	ClassType    string    `json:"class_type"     gorm:"type:varchar(16);not null"`
	MaxGroupSize int       `json:"max_group_size,omitempty"`
	Price        float64   `json:"price"          gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Offer.
func (Offer) TableName() string { return "offers" }

// Reschedule proposal states. A class starts with no proposal; a pending
// proposal must be accepted or declined before a new one may be opened.
const (
	ReschedNone     = "none"
	ReschedPending  = "pending"
	ReschedAccepted = "accepted"
	ReschedDeclined = "declined"
)

// Class is one scheduled lesson instance created when a checkout session for
// an offer is confirmed paid. It snapshots the offer terms at booking time,
// so later offer edits do not rewrite history.
//
// PaymentSessionID carries the external checkout session that produced the
// class; its unique index is what makes payment confirmation idempotent.
//
// The Resched* columns hold the single reschedule proposal slot: a new
// proposal overwrites a resolved one, and resolving a pending proposal with
// "accept" copies the proposed date/timeslot onto the live schedule.
type Class struct {
	ID               string    `json:"id"          gorm:"type:char(36);primaryKey"`
	StudentID        string    `json:"student_id"  gorm:"type:char(36);not null;index:idx_student_classes"`
	TeacherID        string    `json:"teacher_id"  gorm:"type:char(36);not null;index:idx_teacher_classes"`
	PaymentSessionID string    `json:"-"           gorm:"type:varchar(255);not null;uniqueIndex:ux_class_payment_session"`
	Date             string    `json:"date"        gorm:"type:varchar(16);not null"` // DD-MM-YYYY
	Timeslot         string    `json:"timeslot"    gorm:"type:varchar(8);not null"`  // HH:MM
	Language         string    `json:"language"    gorm:"type:varchar(16);not null"`
	Level            string    `json:"level"       gorm:"type:varchar(32);not null"`
	ClassType        string    `json:"class_type"  gorm:"type:varchar(16);not null"`
	MaxGroupSize     int       `json:"max_group_size,omitempty"`
	LocationType     string    `json:"location_type" gorm:"type:varchar(16);not null"`
	Location         string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	Duration         int       `json:"duration"    gorm:"not null"`
	Price            float64   `json:"price"       gorm:"not null"`
	IsRated          bool      `json:"is_rated"    gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	ReschedStatus      string `json:"resched_status"                 gorm:"type:varchar(16);not null;default:'none'"`
	ReschedDate        string `json:"resched_date,omitempty"         gorm:"type:varchar(16)"`
	ReschedTimeslot    string `json:"resched_timeslot,omitempty"     gorm:"type:varchar(8)"`
	ReschedInitiatorID string `json:"resched_initiator_id,omitempty" gorm:"type:char(36)"`

	Student User `json:"-" gorm:"foreignKey:StudentID;references:ID"`
	Teacher User `json:"-" gorm:"foreignKey:TeacherID;references:ID"`
}

// TableName returns the database table name for Class.
func (Class) TableName() string { return "classes" }

// Chat is the conversation between exactly two users. The pair is stored in
// lexical order (ParticipantA < ParticipantB) so the unique index makes the
// unordered pair unique: at most one chat per couple of users.
type Chat struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ParticipantA  string    `json:"participant_a"  gorm:"type:char(36);not null;uniqueIndex:ux_chat_pair,priority:1;index"`
	ParticipantB  string    `json:"participant_b"  gorm:"type:char(36);not null;uniqueIndex:ux_chat_pair,priority:2;index"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// HasParticipant reports whether userID is one of the two chat members.
func (c Chat) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the counterpart of userID in the chat, or ""
// when userID is not a participant.
func (c Chat) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// Message is a single chat utterance. Creation time defines conversation
// order; messages are immutable once written except for deletion by their
// sender.
type Message struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	ChatID      string    `json:"chat_id"      gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	SenderID    string    `json:"sender_id"    gorm:"type:char(36);not null;index"`
	RecipientID string    `json:"recipient_id" gorm:"type:char(36);not null"`
	Body        string    `json:"body"         gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"   gorm:"index:idx_chat_msgs,priority:2"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Review is a student's rating of a teacher for one completed class. The
// class context (date, language, level, formats) is denormalized at write
// time, so the review stays intact when the class row is cancelled later.
// Duplicates are prevented by the IsRated transition on Class, not by a
// schema constraint.
type Review struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	AuthorID     string    `json:"author_id"     gorm:"type:char(36);not null;index"`
	SubjectID    string    `json:"subject_id"    gorm:"type:char(36);not null;index:idx_subject_reviews"`
	Rating       int       `json:"rating"        gorm:"not null"`
	Text         string    `json:"text"          gorm:"type:text"`
	Date         string    `json:"date"          gorm:"type:varchar(16)"`
	Language     string    `json:"language"      gorm:"type:varchar(16)"`
	Level        string    `json:"level"         gorm:"type:varchar(32)"`
	ClassType    string    `json:"class_type"    gorm:"type:varchar(16)"`
	LocationType string    `json:"location_type" gorm:"type:varchar(16)"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// Notification types. The cancel and reschedule families are role-specific
// so the recipient copy can say who acted.
const (
	NotifReview          = "review"
	NotifBooking         = "booking"
	NotifCancelStudent   = "cancel-student"
	NotifCancelTeacher   = "cancel-teacher"
	NotifMessage         = "message"
	NotifClone           = "clone"
	NotifReschedStudent  = "reschedule-student-pending"
	NotifReschedTeacher  = "reschedule-teacher-pending"
	NotifReschedAccepted = "reschedule-accepted"
	NotifReschedDeclined = "reschedule-declined"
)

// Notification is a fan-in record of a domain event directed at a user.
// Display decoration (icon flag, time-ago) is computed at read time by the
// notification service, never stored.
type Notification struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SourceID  string    `json:"source_id"  gorm:"type:char(36);not null"`
	TargetID  string    `json:"target_id"  gorm:"type:char(36);not null;index:idx_target_notifs"`
	Type      string    `json:"type"       gorm:"type:varchar(40);not null"`
	Read      bool      `json:"read"       gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`

	Source User `json:"-" gorm:"foreignKey:SourceID;references:ID"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// PriorityMastered is the sentinel priority marking a flashcard as learned;
// study queues exclude it from rotation.
const PriorityMastered = -10

// Deck is a user-authored study set. Deleting a deck cascades to its cards;
// cloning a deck duplicates every card with priority reset to zero.
type Deck struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	OwnerID   string    `json:"owner_id"  gorm:"type:char(36);not null;index:idx_owner_decks"`
	Language  string    `json:"language"  gorm:"type:varchar(16);not null"`
	Level     string    `json:"level"     gorm:"type:varchar(32);not null"`
	Topic     string    `json:"topic"     gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Deck.
func (Deck) TableName() string { return "decks" }

// Flashcard is one spaced-repetition card. Priority is a repetition weight:
// higher means "show sooner", PriorityMastered retires the card.
type Flashcard struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	DeckID    string    `json:"deck_id"  gorm:"type:char(36);not null;index:idx_deck_cards"`
	Front     string    `json:"front"    gorm:"type:text;not null"`
	Back      string    `json:"back"     gorm:"type:text;not null"`
	Priority  int       `json:"priority" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Deck Deck `json:"-" gorm:"foreignKey:DeckID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Flashcard.
func (Flashcard) TableName() string { return "flashcards" }
