package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
)

func newBookingFixture(t *testing.T) (*BookingService, *gorm.DB, *domain.User, *domain.User, *domain.Offer) {
	t.Helper()
	db := newTestDB(t)
	s := &BookingService{DB: db, Notifier: &NotificationService{DB: db}}
	teacher := seedUser(t, db, "teacher", []string{"es"}, nil, func(u *domain.User) { u.Professional = true })
	student := seedUser(t, db, "student", []string{"en"}, []string{"es"})
	offer := seedOffer(t, db, teacher.ID, "es")
	return s, db, teacher, student, offer
}

func TestBookingService_CreateClassFromPayment(t *testing.T) {
	s, db, teacher, student, offer := newBookingFixture(t)
	ctx := context.Background()

	c, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if c.TeacherID != teacher.ID || c.Price != offer.Price || c.Duration != offer.Duration {
		t.Fatalf("offer terms not snapshotted: %+v", c)
	}

	// A retry with the same session must not create a second class.
	again, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00")
	if err != nil {
		t.Fatalf("replayed create: %v", err)
	}
	if again.ID != c.ID {
		t.Fatalf("replay created a new class %s, want %s", again.ID, c.ID)
	}
	var n int64
	db.Model(&domain.Class{}).Count(&n)
	if n != 1 {
		t.Fatalf("class count = %d, want 1", n)
	}

	notifs := notificationsFor(t, db, teacher.ID)
	if len(notifs) != 1 || notifs[0].Type != domain.NotifBooking {
		t.Fatalf("teacher notifications = %+v, want one booking", notifs)
	}

	if _, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_2", "2026-10-15", "14:00"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("bad date format: got %v", err)
	}
	if _, err := s.CreateClassFromPayment(ctx, "missing", student.ID, "cs_3", "15-10-2026", "14:00"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("missing offer: got %v", err)
	}
}

func TestBookingService_RescheduleLifecycle(t *testing.T) {
	s, db, teacher, student, offer := newBookingFixture(t)
	ctx := context.Background()

	c, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	// Student proposes; teacher is notified with the student-pending type.
	c, err = s.ProposeReschedule(ctx, c.ID, student.ID, "16-10-2026", "10:00")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if c.ReschedStatus != domain.ReschedPending {
		t.Fatalf("status = %s, want pending", c.ReschedStatus)
	}

	// Second proposal while pending conflicts.
	if _, err := s.ProposeReschedule(ctx, c.ID, teacher.ID, "17-10-2026", "10:00"); !errors.Is(err, ErrReschedulePending) {
		t.Fatalf("pending conflict: got %v", err)
	}
	// The initiator cannot resolve their own proposal.
	if _, err := s.ResolveReschedule(ctx, c.ID, student.ID, true); !errors.Is(err, ErrRescheduleOwnProposal) {
		t.Fatalf("own proposal: got %v", err)
	}
	// A stranger is rejected before any state check.
	stranger := seedUser(t, db, "stranger", nil, []string{"es"})
	if _, err := s.ResolveReschedule(ctx, c.ID, stranger.ID, true); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger: got %v", err)
	}

	// Teacher accepts: proposal lands on the live schedule.
	c, err = s.ResolveReschedule(ctx, c.ID, teacher.ID, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if c.Date != "16-10-2026" || c.Timeslot != "10:00" || c.ReschedStatus != domain.ReschedAccepted {
		t.Fatalf("accept did not apply proposal: %+v", c)
	}

	// Resolving again conflicts: nothing is pending anymore.
	if _, err := s.ResolveReschedule(ctx, c.ID, teacher.ID, false); !errors.Is(err, ErrRescheduleNotPending) {
		t.Fatalf("double resolve: got %v", err)
	}

	// A resolved proposal may be overwritten by a new one; declining leaves
	// the live schedule alone.
	c, err = s.ProposeReschedule(ctx, c.ID, teacher.ID, "20-10-2026", "09:00")
	if err != nil {
		t.Fatalf("second propose: %v", err)
	}
	c, err = s.ResolveReschedule(ctx, c.ID, student.ID, false)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if c.Date != "16-10-2026" || c.Timeslot != "10:00" || c.ReschedStatus != domain.ReschedDeclined {
		t.Fatalf("decline mutated schedule: %+v", c)
	}

	types := func(userID string) []string {
		var out []string
		for _, n := range notificationsFor(t, db, userID) {
			out = append(out, n.Type)
		}
		return out
	}
	wantTeacher := []string{domain.NotifBooking, domain.NotifReschedStudent, domain.NotifReschedDeclined}
	gotTeacher := types(teacher.ID)
	if len(gotTeacher) != len(wantTeacher) {
		t.Fatalf("teacher notifications = %v, want %v", gotTeacher, wantTeacher)
	}
	wantStudent := []string{domain.NotifReschedAccepted, domain.NotifReschedTeacher}
	gotStudent := types(student.ID)
	if len(gotStudent) != len(wantStudent) {
		t.Fatalf("student notifications = %v, want %v", gotStudent, wantStudent)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	s, db, teacher, student, offer := newBookingFixture(t)
	ctx := context.Background()

	c, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if err := s.Cancel(ctx, c.ID, student.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := repo.GetClass(ctx, db, c.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("class still present: %v", err)
	}
	notifs := notificationsFor(t, db, teacher.ID)
	var cancels int
	for _, n := range notifs {
		if n.Type == domain.NotifCancelStudent {
			cancels++
		}
	}
	if cancels != 1 {
		t.Fatalf("teacher notifications = %+v, want one cancel-student", notifs)
	}
	if err := s.Cancel(ctx, c.ID, student.ID); !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("double cancel: got %v", err)
	}
}

func TestBookingService_RateOnce(t *testing.T) {
	s, db, teacher, student, offer := newBookingFixture(t)
	ctx := context.Background()

	c, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00")
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	if _, err := s.Rate(ctx, c.ID, student.ID, 6, "great"); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("out-of-range rating: got %v", err)
	}
	// Only the student rates.
	if _, err := s.Rate(ctx, c.ID, teacher.ID, 5, "great"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("teacher rating own class: got %v", err)
	}

	r, err := s.Rate(ctx, c.ID, student.ID, 5, "  great teacher  ")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if r.SubjectID != teacher.ID || r.Text != "great teacher" || r.Language != c.Language {
		t.Fatalf("review snapshot wrong: %+v", r)
	}

	if _, err := s.Rate(ctx, c.ID, student.ID, 4, "again"); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("second rating: got %v", err)
	}

	views, err := s.ReviewsFor(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("reviews for: %v", err)
	}
	if len(views) != 1 || views[0].AuthorUsername != "student" {
		t.Fatalf("reviews = %+v, want one by student", views)
	}
}

func TestBookingService_Calendar(t *testing.T) {
	s, _, teacher, student, offer := newBookingFixture(t)
	ctx := context.Background()

	if _, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_1", "15-10-2026", "14:00"); err != nil {
		t.Fatalf("create class: %v", err)
	}
	if _, err := s.CreateClassFromPayment(ctx, offer.ID, student.ID, "cs_2", "01-01-2020", "09:30"); err != nil {
		t.Fatalf("create past class: %v", err)
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	events, err := s.CalendarFor(ctx, teacher.ID, now)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	byDate := map[string]CalendarEvent{}
	for _, e := range events {
		byDate[e.Class.Date] = e
	}
	future := byDate["15-10-2026"]
	if future.Start != "2026-10-15T14:00:00" || future.End != "2026-10-15T15:00:00" || future.Past {
		t.Fatalf("future event = %+v", future)
	}
	past := byDate["01-01-2020"]
	if !past.Past || past.Start != "2020-01-01T09:30:00" {
		t.Fatalf("past event = %+v", past)
	}
}
