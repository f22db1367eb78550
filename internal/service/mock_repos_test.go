package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
)

// ── in-memory repository mocks ──

type mockUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[uint]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.FirebaseUID == user.FirebaseUID || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByFirebaseUID(_ context.Context, uid string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

type mockAttendanceRepo struct {
	mu           sync.Mutex
	nextSession  uint
	nextRecord   uint
	sessions     map[uint]*model.AttendanceSession
	records      map[uint]*model.AttendanceRecord
	createRecErr error
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{
		nextSession: 1,
		nextRecord:  1,
		sessions:    make(map[uint]*model.AttendanceSession),
		records:     make(map[uint]*model.AttendanceRecord),
	}
}

func (m *mockAttendanceRepo) CreateSession(_ context.Context, session *model.AttendanceSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = m.nextSession
	m.nextSession++
	session.CreatedAt = time.Now()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetSessionByID(_ context.Context, id uint) (*model.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListSessions(_ context.Context) ([]model.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AttendanceSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockAttendanceRepo) UpdateSession(_ context.Context, session *model.AttendanceSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) CountRecordsBySession(_ context.Context, sessionID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.records {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) CreateRecord(_ context.Context, record *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createRecErr != nil {
		return m.createRecErr
	}
	for _, r := range m.records {
		if r.SessionID == record.SessionID && r.StudentID == record.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = m.nextRecord
	m.nextRecord++
	cp := *record
	m.records[record.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetRecord(_ context.Context, sessionID, studentID uint) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SessionID == sessionID && r.StudentID == studentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListRecordsBySession(_ context.Context, sessionID uint) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AttendanceRecord, 0)
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) ListRecordsByStudent(_ context.Context, studentID uint) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AttendanceRecord, 0)
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type mockLeaveRepo struct {
	mu     sync.Mutex
	nextID uint
	leaves map[uint]*model.LeaveRequest
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{nextID: 1, leaves: make(map[uint]*model.LeaveRequest)}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	leave.ID = m.nextID
	m.nextID++
	leave.CreatedAt = time.Now()
	cp := *leave
	m.leaves[leave.ID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id uint) (*model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) ListByStudent(_ context.Context, studentID uint) ([]model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LeaveRequest, 0)
	for _, l := range m.leaves {
		if l.StudentID == studentID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) ListByStatus(_ context.Context, status string) ([]model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LeaveRequest, 0)
	for _, l := range m.leaves {
		if l.Status == status {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) List(_ context.Context, statusFilter string) ([]model.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LeaveRequest, 0)
	for _, l := range m.leaves {
		if statusFilter == "" || l.Status == statusFilter {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) ReviewIfPending(_ context.Context, id uint, status string, reviewerID uint, reviewedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok || l.Status != model.LeavePending {
		return false, nil
	}
	l.Status = status
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &reviewedAt
	return true, nil
}

func (m *mockLeaveRepo) DeleteIfPendingOwned(_ context.Context, id, studentID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok || l.StudentID != studentID || l.Status != model.LeavePending {
		return false, nil
	}
	delete(m.leaves, id)
	return true, nil
}

type mockFCMTokenRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]*model.FCMToken
}

func newMockFCMTokenRepo() *mockFCMTokenRepo {
	return &mockFCMTokenRepo{nextID: 1, tokens: make(map[uint]*model.FCMToken)}
}

func (m *mockFCMTokenRepo) Create(_ context.Context, token *model.FCMToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.UserID == token.UserID && t.Token == token.Token {
			return gorm.ErrDuplicatedKey
		}
	}
	token.ID = m.nextID
	m.nextID++
	token.CreatedAt = time.Now()
	cp := *token
	m.tokens[token.ID] = &cp
	return nil
}

func (m *mockFCMTokenRepo) GetByUserAndToken(_ context.Context, userID uint, token string) (*model.FCMToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.UserID == userID && t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFCMTokenRepo) Update(_ context.Context, token *model.FCMToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *token
	m.tokens[token.ID] = &cp
	return nil
}

func (m *mockFCMTokenRepo) DeleteByUserAndToken(_ context.Context, userID uint, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tokens {
		if t.UserID == userID && t.Token == token {
			delete(m.tokens, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFCMTokenRepo) ListByUser(_ context.Context, userID uint) ([]model.FCMToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.FCMToken, 0)
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeSender records every push and fails for tokens listed in failing.
type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failing map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failing: make(map[string]bool)}
}

func (f *fakeSender) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[token] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, token)
	return nil
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:       newMockUserRepo(),
		Attendance: newMockAttendanceRepo(),
		Leave:      newMockLeaveRepo(),
		FCMToken:   newMockFCMTokenRepo(),
	}
}
