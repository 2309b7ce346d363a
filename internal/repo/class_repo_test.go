package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"gorm.io/gorm"
)

func seedClass(t *testing.T, db *gorm.DB, studentID, teacherID, session string) *domain.Class {
	t.Helper()
	c := &domain.Class{
		StudentID:        studentID,
		TeacherID:        teacherID,
		PaymentSessionID: session,
		Date:             "22-07-2026",
		Timeslot:         "10:00",
		Language:         "es",
		Level:            "B1",
		ClassType:        domain.ClassTypePrivate,
		LocationType:     domain.LocationOnline,
		Duration:         60,
		Price:            20,
	}
	if err := CreateClass(context.Background(), db, c); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return c
}

func TestClass_PaymentSessionUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := seedUser(t, db, "student")
	te := seedUser(t, db, "teacher")

	first := seedClass(t, db, s.ID, te.ID, "cs_123")

	dup := &domain.Class{
		StudentID:        s.ID,
		TeacherID:        te.ID,
		PaymentSessionID: "cs_123",
		Date:             "23-07-2026",
		Timeslot:         "11:00",
		Language:         "es",
		Level:            "B1",
		ClassType:        domain.ClassTypePrivate,
		LocationType:     domain.LocationOnline,
		Duration:         60,
		Price:            20,
	}
	if err := CreateClass(ctx, db, dup); !IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	got, err := GetClassByPaymentSession(ctx, db, "cs_123")
	if err != nil {
		t.Fatalf("GetClassByPaymentSession: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("session lookup = %s, want %s", got.ID, first.ID)
	}
}

func TestClass_DefaultReschedStatus(t *testing.T) {
	db := newTestDB(t)
	s := seedUser(t, db, "student")
	te := seedUser(t, db, "teacher")

	c := seedClass(t, db, s.ID, te.ID, "cs_1")
	got, err := GetClass(context.Background(), db, c.ID)
	if err != nil {
		t.Fatalf("GetClass: %v", err)
	}
	if got.ReschedStatus != domain.ReschedNone {
		t.Fatalf("ReschedStatus = %q, want none", got.ReschedStatus)
	}
}

func TestMarkClassRated_Once(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := seedUser(t, db, "student")
	te := seedUser(t, db, "teacher")
	c := seedClass(t, db, s.ID, te.ID, "cs_1")

	if err := MarkClassRated(ctx, db, c.ID); err != nil {
		t.Fatalf("first MarkClassRated: %v", err)
	}
	// Second transition affects zero rows.
	if err := MarkClassRated(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second MarkClassRated: got %v, want ErrNotFound", err)
	}
}

func TestUpdateClassSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := seedUser(t, db, "student")
	te := seedUser(t, db, "teacher")
	c := seedClass(t, db, s.ID, te.ID, "cs_1")

	err := UpdateClassSchedule(ctx, db, c.ID, map[string]any{
		"date":           "30-07-2026",
		"timeslot":       "15:00",
		"resched_status": domain.ReschedAccepted,
	})
	if err != nil {
		t.Fatalf("UpdateClassSchedule: %v", err)
	}

	got, _ := GetClass(ctx, db, c.ID)
	if got.Date != "30-07-2026" || got.Timeslot != "15:00" || got.ReschedStatus != domain.ReschedAccepted {
		t.Fatalf("unexpected class after update: %+v", got)
	}

	if err := UpdateClassSchedule(ctx, db, "missing", map[string]any{"date": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing class: got %v, want ErrNotFound", err)
	}
}

func TestDeleteClass(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := seedUser(t, db, "student")
	te := seedUser(t, db, "teacher")
	c := seedClass(t, db, s.ID, te.ID, "cs_1")

	if err := DeleteClass(ctx, db, c.ID); err != nil {
		t.Fatalf("DeleteClass: %v", err)
	}
	if _, err := GetClass(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("class still present: %v", err)
	}
	if err := DeleteClass(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
}
