package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/internal/model"
)

func TestSessionSheet(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	session := &model.AttendanceSession{SessionName: "Morning Assembly", CreatedBy: "teacher-uid"}
	if err := repo.Attendance.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	student := &model.User{FirebaseUID: "s1", Email: "s1@example.com", Name: "S One", Role: model.RoleStudent}
	if err := repo.User.Create(context.Background(), student); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := repo.Attendance.CreateRecord(context.Background(), &model.AttendanceRecord{
		SessionID:   session.ID,
		StudentID:   student.ID,
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusPresent,
		CheckInTime: "08:30:00",
	}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	data, filename, err := svc.SessionSheet(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("SessionSheet: %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatal("output is not a zip-based workbook")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Fatalf("unexpected filename %s", filename)
	}
	if strings.ContainsAny(filename, "/\\ ") {
		t.Fatalf("filename not sanitized: %s", filename)
	}
}

func TestSessionSheetNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())

	_, _, err := svc.SessionSheet(context.Background(), 42)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}
