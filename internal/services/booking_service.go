package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
	"github.com/nvasilas/go-tandem-backend/internal/utils"
)

// BookingService owns the class lifecycle: creation from a settled checkout
// session, the reschedule proposal state machine, cancellation, and the
// one-shot review at the end.
type BookingService struct {
	DB       *gorm.DB
	Notifier *NotificationService
}

// CreateClassFromPayment materializes a class from a paid checkout session,
// snapshotting the offer's terms so later offer edits do not rewrite booked
// lessons. The unique index on the session id makes retries idempotent: a
// duplicate insert returns the already-created class.
func (s *BookingService) CreateClassFromPayment(ctx context.Context, offerID, studentID, sessionID, date, timeslot string) (*domain.Class, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "CreateClassFromPayment",
		trace.WithAttributes(
			attribute.String("offer.id", offerID),
			attribute.String("user.id", studentID),
		),
	)
	defer span.End()

	if sessionID == "" || date == "" || timeslot == "" {
		return nil, ErrMissingFields
	}
	if _, err := utils.ParseClassDate(date); err != nil {
		return nil, ErrMissingFields
	}
	if !utils.ValidTimeslot(timeslot) {
		return nil, ErrMissingFields
	}

	offer, err := repo.GetOffer(ctx, s.DB, offerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	c := &domain.Class{
		ID:               uuid.NewString(),
		StudentID:        studentID,
		TeacherID:        offer.OwnerID,
		PaymentSessionID: sessionID,
		Date:             date,
		Timeslot:         timeslot,
		Language:         offer.Language,
		Level:            offer.Level,
		ClassType:        offer.ClassType,
		MaxGroupSize:     offer.MaxGroupSize,
		LocationType:     offer.LocationType,
		Location:         offer.Location,
		Duration:         offer.Duration,
		Price:            offer.Price,
	}
	if err := repo.CreateClass(ctx, s.DB, c); err != nil {
		if repo.IsDuplicate(err) {
			// Same session already booked a class; return it.
			return repo.GetClassByPaymentSession(ctx, s.DB, sessionID)
		}
		return nil, err
	}

	s.Notifier.Notify(ctx, studentID, offer.OwnerID, domain.NotifBooking)
	return c, nil
}

// ProposeReschedule opens a new date/timeslot proposal on a class. Only a
// participant may propose, only when no proposal is pending; a resolved
// proposal is overwritten by the next one.
func (s *BookingService) ProposeReschedule(ctx context.Context, classID, actorID, date, timeslot string) (*domain.Class, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "ProposeReschedule",
		trace.WithAttributes(attribute.String("class.id", classID)),
	)
	defer span.End()

	if _, err := utils.ParseClassDate(date); err != nil {
		return nil, ErrMissingFields
	}
	if !utils.ValidTimeslot(timeslot) {
		return nil, ErrMissingFields
	}

	c, err := s.participantClass(ctx, classID, actorID)
	if err != nil {
		return nil, err
	}
	if c.ReschedStatus == domain.ReschedPending {
		return nil, ErrReschedulePending
	}

	err = repo.UpdateClassSchedule(ctx, s.DB, classID, map[string]any{
		"resched_status":       domain.ReschedPending,
		"resched_date":         date,
		"resched_timeslot":     timeslot,
		"resched_initiator_id": actorID,
	})
	if err != nil {
		return nil, err
	}
	c.ReschedStatus = domain.ReschedPending
	c.ReschedDate = date
	c.ReschedTimeslot = timeslot
	c.ReschedInitiatorID = actorID

	typ := domain.NotifReschedStudent
	target := c.TeacherID
	if actorID == c.TeacherID {
		typ = domain.NotifReschedTeacher
		target = c.StudentID
	}
	s.Notifier.Notify(ctx, actorID, target, typ)
	return c, nil
}

// ResolveReschedule accepts or declines the pending proposal. Only the
// counterparty of the initiator may resolve; accepting copies the proposed
// slot onto the live schedule in the same write that closes the proposal.
func (s *BookingService) ResolveReschedule(ctx context.Context, classID, actorID string, accept bool) (*domain.Class, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "ResolveReschedule",
		trace.WithAttributes(
			attribute.String("class.id", classID),
			attribute.Bool("accept", accept),
		),
	)
	defer span.End()

	c, err := s.participantClass(ctx, classID, actorID)
	if err != nil {
		return nil, err
	}
	if c.ReschedStatus != domain.ReschedPending {
		return nil, ErrRescheduleNotPending
	}
	if c.ReschedInitiatorID == actorID {
		return nil, ErrRescheduleOwnProposal
	}

	fields := map[string]any{"resched_status": domain.ReschedDeclined}
	typ := domain.NotifReschedDeclined
	if accept {
		fields = map[string]any{
			"resched_status": domain.ReschedAccepted,
			"date":           c.ReschedDate,
			"timeslot":       c.ReschedTimeslot,
		}
		typ = domain.NotifReschedAccepted
	}
	if err := repo.UpdateClassSchedule(ctx, s.DB, classID, fields); err != nil {
		return nil, err
	}
	if accept {
		c.Date = c.ReschedDate
		c.Timeslot = c.ReschedTimeslot
		c.ReschedStatus = domain.ReschedAccepted
	} else {
		c.ReschedStatus = domain.ReschedDeclined
	}

	s.Notifier.Notify(ctx, actorID, c.ReschedInitiatorID, typ)
	return c, nil
}

// Cancel deletes a class outright and tells the counterparty who acted.
func (s *BookingService) Cancel(ctx context.Context, classID, actorID string) error {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Cancel",
		trace.WithAttributes(attribute.String("class.id", classID)),
	)
	defer span.End()

	c, err := s.participantClass(ctx, classID, actorID)
	if err != nil {
		return err
	}
	if err := repo.DeleteClass(ctx, s.DB, classID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	typ := domain.NotifCancelStudent
	target := c.TeacherID
	if actorID == c.TeacherID {
		typ = domain.NotifCancelTeacher
		target = c.StudentID
	}
	s.Notifier.Notify(ctx, actorID, target, typ)
	return nil
}

// Rate records the student's one-shot review of a finished class. The rated
// flag flips inside the transaction that inserts the review, so a concurrent
// second rating rolls back instead of double-inserting.
func (s *BookingService) Rate(ctx context.Context, classID, authorID string, rating int, text string) (*domain.Review, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Rate",
		trace.WithAttributes(attribute.String("class.id", classID)),
	)
	defer span.End()

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	c, err := s.participantClass(ctx, classID, authorID)
	if err != nil {
		return nil, err
	}
	if authorID != c.StudentID {
		return nil, ErrNotParticipant
	}
	if c.IsRated {
		return nil, ErrAlreadyRated
	}

	review := &domain.Review{
		ID:           uuid.NewString(),
		AuthorID:     authorID,
		SubjectID:    c.TeacherID,
		Rating:       rating,
		Text:         strings.TrimSpace(text),
		Date:         c.Date,
		Language:     c.Language,
		Level:        c.Level,
		ClassType:    c.ClassType,
		LocationType: c.LocationType,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.MarkClassRated(ctx, tx, classID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAlreadyRated
			}
			return err
		}
		return repo.CreateReview(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, authorID, c.TeacherID, domain.NotifReview)
	return review, nil
}

// UpcomingFor returns the student's booked classes.
func (s *BookingService) UpcomingFor(ctx context.Context, studentID string) ([]domain.Class, error) {
	return repo.ListClassesByStudent(ctx, s.DB, studentID)
}

// CalendarEvent is a teacher's class projected onto a concrete time span.
type CalendarEvent struct {
	Class domain.Class `json:"class"`
	Start string       `json:"start"`
	End   string       `json:"end"`
	Past  bool         `json:"past"`
}

// CalendarFor expands the teacher's classes into calendar events spanning
// [date+timeslot, +duration). Rows with malformed stored schedules are
// logged and skipped rather than breaking the whole calendar.
func (s *BookingService) CalendarFor(ctx context.Context, teacherID string, now time.Time) ([]CalendarEvent, error) {
	classes, err := repo.ListClassesByTeacher(ctx, s.DB, teacherID)
	if err != nil {
		return nil, err
	}
	events := make([]CalendarEvent, 0, len(classes))
	for _, c := range classes {
		start, end, err := utils.EventSpan(c.Date, c.Timeslot, c.Duration)
		if err != nil {
			log.Warn().Err(err).Str("class_id", c.ID).Msg("skipping class with malformed schedule")
			continue
		}
		events = append(events, CalendarEvent{
			Class: c,
			Start: start,
			End:   end,
			Past:  utils.IsPastClass(c.Date, now),
		})
	}
	return events, nil
}

// ReviewView is a review annotated with the author's username for display.
type ReviewView struct {
	domain.Review
	AuthorUsername string `json:"author_username"`
}

// ReviewsFor returns the reviews written about the given user, newest first.
func (s *BookingService) ReviewsFor(ctx context.Context, subjectID string) ([]ReviewView, error) {
	rows, err := repo.ListReviewsBySubject(ctx, s.DB, subjectID)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	authors, err := repo.ListUsersByIDs(ctx, s.DB, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReviewView{Review: r, AuthorUsername: authors[r.AuthorID].Username})
	}
	return out, nil
}

// participantClass loads a class and checks the actor is one of its two
// parties.
func (s *BookingService) participantClass(ctx context.Context, classID, actorID string) (*domain.Class, error) {
	c, err := repo.GetClass(ctx, s.DB, classID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if actorID != c.StudentID && actorID != c.TeacherID {
		return nil, ErrNotParticipant
	}
	return c, nil
}
