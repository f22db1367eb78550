package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/repository"
)

// ExportService renders attendance data as spreadsheet files.
type ExportService interface {
	// SessionSheet builds an xlsx workbook with every record of the session
	// and returns the file bytes plus a suggested filename.
	SessionSheet(ctx context.Context, sessionID uint) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) SessionSheet(ctx context.Context, sessionID uint) ([]byte, string, error) {
	session, err := s.repo.Attendance.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSessionNotFound
		}
		s.logger.Error("get session for export failed", zap.Uint("session_id", sessionID), zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListRecordsBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("list records for export failed", zap.Uint("session_id", sessionID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Student Name", "Email", "Date", "Status", "Check-in Time", "Check-out Time"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "F1", headerStyle)
	f.SetColWidth(sheet, "A", "B", 28)
	f.SetColWidth(sheet, "C", "F", 16)

	for i := range records {
		record := &records[i]
		row := i + 2

		name := "Unknown"
		email := ""
		if student, err := s.repo.User.GetByID(ctx, record.StudentID); err == nil {
			name = student.Name
			email = student.Email
		}

		checkOut := ""
		if record.CheckOutTime != nil {
			checkOut = *record.CheckOutTime
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), record.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), record.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), record.CheckInTime)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), checkOut)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write workbook failed", zap.Uint("session_id", sessionID), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance_%s_%d.xlsx", sanitizeFilename(session.SessionName), session.ID)
	return buf.Bytes(), filename, nil
}

// sanitizeFilename keeps the session name safe for a Content-Disposition
// header.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "session"
	}
	return b.String()
}
