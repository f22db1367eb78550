package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

func newLeaveFixture(t *testing.T) (*leaveService, *repository.Repository, *fakeSender) {
	t.Helper()
	repo := newMockRepository()
	sender := newFakeSender()
	users := NewUserService(repo, zap.NewNop())
	notifications := NewNotificationService(repo, users, sender, zap.NewNop())
	svc := NewLeaveService(repo, users, notifications, zap.NewNop()).(*leaveService)
	return svc, repo, sender
}

func studentClaims(uid string) *identity.Claims {
	return &identity.Claims{UID: uid, Email: uid + "@example.com", Name: "Student " + uid}
}

func teacherClaims() *identity.Claims {
	return &identity.Claims{UID: "teacher-1", Email: "t@example.com", Name: "Teacher", Role: model.RoleTeacher}
}

func applyLeave(t *testing.T, svc *leaveService, claims *identity.Claims) *dto.LeaveResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), claims, &dto.ApplyLeaveRequest{
		FromDate: "2026-09-01",
		ToDate:   "2026-09-03",
		Reason:   "family function at home",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return resp
}

func TestApplyLeave(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	resp := applyLeave(t, svc, studentClaims("s1"))
	if resp.Status != model.LeavePending {
		t.Fatalf("got status %s, want PENDING", resp.Status)
	}
	if resp.FromDate != "2026-09-01" || resp.ToDate != "2026-09-03" {
		t.Fatalf("dates drifted: %s / %s", resp.FromDate, resp.ToDate)
	}
}

func TestApplyLeaveInvalidRange(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.Apply(context.Background(), studentClaims("s1"), &dto.ApplyLeaveRequest{
		FromDate: "2026-09-03",
		ToDate:   "2026-09-01",
		Reason:   "dates are backwards",
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("got %v, want ErrInvalidDateRange", err)
	}
}

func TestApplyLeaveSingleDay(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.Apply(context.Background(), studentClaims("s1"), &dto.ApplyLeaveRequest{
		FromDate: "2026-09-01",
		ToDate:   "2026-09-01",
		Reason:   "medical appointment",
	})
	if err != nil {
		t.Fatalf("single-day leave rejected: %v", err)
	}
}

func TestApplyLeaveTeacherForbidden(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.Apply(context.Background(), teacherClaims(), &dto.ApplyLeaveRequest{
		FromDate: "2026-09-01",
		ToDate:   "2026-09-02",
		Reason:   "teachers do not apply",
	})
	if !errors.Is(err, ErrOnlyStudents) {
		t.Fatalf("got %v, want ErrOnlyStudents", err)
	}
}

func TestReviewApprove(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, studentClaims("s1"))

	resp, err := svc.Review(context.Background(), leave.ID, teacherClaims(), "APPROVE")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if resp.LeaveRequest.Status != model.LeaveApproved {
		t.Fatalf("got status %s, want APPROVED", resp.LeaveRequest.Status)
	}
	if resp.LeaveRequest.ReviewedBy == nil || resp.LeaveRequest.ReviewedAt == nil {
		t.Fatal("reviewer fields not recorded")
	}
	if resp.NotificationSent {
		t.Fatal("notification reported sent with no registered tokens")
	}
	if !strings.Contains(resp.Message, "approved") {
		t.Fatalf("unexpected message: %s", resp.Message)
	}
}

func TestReviewInvalidAction(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, studentClaims("s1"))

	_, err := svc.Review(context.Background(), leave.ID, teacherClaims(), "MAYBE")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("got %v, want ErrInvalidAction", err)
	}
}

func TestReviewTwiceConflicts(t *testing.T) {
	svc, repo, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, studentClaims("s1"))

	if _, err := svc.Review(context.Background(), leave.ID, teacherClaims(), "APPROVE"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Review(context.Background(), leave.ID, teacherClaims(), "REJECT")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("got %v, want ErrAlreadyReviewed", err)
	}

	// the losing decision must not overwrite the stored state
	stored, _ := repo.Leave.GetByID(context.Background(), leave.ID)
	if stored.Status != model.LeaveApproved {
		t.Fatalf("stored status %s, want APPROVED", stored.Status)
	}
}

func TestReviewNotFound(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.Review(context.Background(), 99, teacherClaims(), "APPROVE")
	if !errors.Is(err, ErrLeaveNotFound) {
		t.Fatalf("got %v, want ErrLeaveNotFound", err)
	}
}

func TestBatchReview(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	first := applyLeave(t, svc, studentClaims("s1"))
	second := applyLeave(t, svc, studentClaims("s2"))
	third := applyLeave(t, svc, studentClaims("s3"))

	// decide one up front so the batch sees a non-PENDING id
	if _, err := svc.Review(context.Background(), third.ID, teacherClaims(), "REJECT"); err != nil {
		t.Fatalf("pre-review: %v", err)
	}

	resp, err := svc.BatchReview(context.Background(), teacherClaims(), &dto.BatchActionRequest{
		LeaveIDs: []uint{first.ID, second.ID, third.ID, 999},
		Action:   "APPROVE",
	})
	if err != nil {
		t.Fatalf("BatchReview: %v", err)
	}

	if resp.SuccessCount != 2 {
		t.Fatalf("got success count %d, want 2", resp.SuccessCount)
	}
	// already-decided ids are filtered, unknown ids fail
	if len(resp.Failed) != 1 || resp.Failed[0].ID != 999 {
		t.Fatalf("unexpected failed list: %+v", resp.Failed)
	}
	if resp.Status != model.LeaveApproved {
		t.Fatalf("got status %s, want APPROVED", resp.Status)
	}
}

func TestBatchReviewEmpty(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	_, err := svc.BatchReview(context.Background(), teacherClaims(), &dto.BatchActionRequest{
		LeaveIDs: []uint{},
		Action:   "APPROVE",
	})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("got %v, want ErrEmptyBatch", err)
	}
}

func TestBatchReviewTooLarge(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	ids := make([]uint, maxBatchSize+1)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	_, err := svc.BatchReview(context.Background(), teacherClaims(), &dto.BatchActionRequest{
		LeaveIDs: ids,
		Action:   "REJECT",
	})
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("got %v, want ErrBatchTooLarge", err)
	}
}

func TestCancelLeave(t *testing.T) {
	svc, repo, _ := newLeaveFixture(t)
	claims := studentClaims("s1")
	leave := applyLeave(t, svc, claims)

	if err := svc.Cancel(context.Background(), leave.ID, claims); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := repo.Leave.GetByID(context.Background(), leave.ID); err == nil {
		t.Fatal("cancelled leave still present")
	}
}

func TestCancelLeaveNotOwner(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)
	leave := applyLeave(t, svc, studentClaims("s1"))
	applyLeave(t, svc, studentClaims("s2"))

	err := svc.Cancel(context.Background(), leave.ID, studentClaims("s2"))
	if !errors.Is(err, ErrLeaveNotFound) {
		t.Fatalf("got %v, want ErrLeaveNotFound", err)
	}
}

func TestCancelLeaveAlreadyReviewed(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)
	claims := studentClaims("s1")
	leave := applyLeave(t, svc, claims)

	if _, err := svc.Review(context.Background(), leave.ID, teacherClaims(), "APPROVE"); err != nil {
		t.Fatalf("Review: %v", err)
	}
	err := svc.Cancel(context.Background(), leave.ID, claims)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("got %v, want ErrNotPending", err)
	}
}

func TestMyLeavesWithoutUser(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)

	leaves, err := svc.MyLeaves(context.Background(), studentClaims("ghost"))
	if err != nil {
		t.Fatalf("MyLeaves: %v", err)
	}
	if leaves == nil || len(leaves) != 0 {
		t.Fatalf("got %v, want empty slice", leaves)
	}
}

func TestApprovedCalendar(t *testing.T) {
	svc, _, _ := newLeaveFixture(t)
	claims := studentClaims("s1")

	approved := applyLeave(t, svc, claims)
	if _, err := svc.Apply(context.Background(), claims, &dto.ApplyLeaveRequest{
		FromDate: "2026-10-01",
		ToDate:   "2026-10-02",
		Reason:   "still pending, must not appear",
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := svc.Review(context.Background(), approved.ID, teacherClaims(), "APPROVE"); err != nil {
		t.Fatalf("Review: %v", err)
	}

	cal, err := svc.ApprovedCalendar(context.Background(), claims)
	if err != nil {
		t.Fatalf("ApprovedCalendar: %v", err)
	}
	if !strings.Contains(cal, "BEGIN:VCALENDAR") {
		t.Fatal("output is not an iCalendar document")
	}
	if want := "leave-1@attendance-app"; !strings.Contains(cal, want) {
		t.Fatalf("approved event %s missing from calendar", want)
	}
	if strings.Count(cal, "BEGIN:VEVENT") != 1 {
		t.Fatalf("expected exactly one event:\n%s", cal)
	}
}
