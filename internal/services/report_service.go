package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/config"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/repositories"
	"github.com/pratty2304/MedConnect/internal/storage"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportNotOwner      = errors.New("only the report owner may share it")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed  = errors.New("file type not allowed")
	ErrShareTargetNotFound = errors.New("user to share with not found")
)

type ReportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
	storage    storage.Storage
	cfg        config.StorageConfig
}

func NewReportService(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
	st storage.Storage,
	cfg config.StorageConfig,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		storage:    st,
		cfg:        cfg,
	}
}

type UploadReportInput struct {
	Title       string
	Type        string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (s *ReportService) Upload(ctx context.Context, ownerID uuid.UUID, input UploadReportInput) (*models.Report, error) {
	if input.Title == "" || input.Reader == nil {
		return nil, fmt.Errorf("report service: invalid upload input")
	}

	if max := int64(s.cfg.MaxFileSizeMB) * 1024 * 1024; max > 0 && input.Size > max {
		return nil, ErrFileTooLarge
	}
	if !s.extensionAllowed(input.FileName) {
		return nil, ErrFileTypeNotAllowed
	}

	fileName := sanitizedFileName(input.FileName)
	storageName := fmt.Sprintf("%s-%s", uuid.NewString(), fileName)
	doc := &storage.Document{
		Name:        storageName,
		ContentType: input.ContentType,
		Size:        input.Size,
		Reader:      input.Reader,
	}

	loc, err := s.storage.Upload(ctx, doc)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		OwnerID:  ownerID,
		Title:    input.Title,
		Type:     input.Type,
		FileName: fileName,
		FilePath: loc.Path,
		FileSize: input.Size,
		MimeType: optionalString(input.ContentType),
	}

	if err := s.reportRepo.Create(report); err != nil {
		_ = s.storage.Delete(ctx, loc)
		return nil, err
	}
	return report, nil
}

// Download streams a report document to its owner or a share recipient.
// Anyone else gets the same not-found answer as a missing id.
func (s *ReportService) Download(ctx context.Context, userID, reportID uuid.UUID) (*models.Report, *storage.DownloadResult, error) {
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		return nil, nil, err
	}
	if report == nil {
		return nil, nil, ErrReportNotFound
	}

	if report.OwnerID != userID {
		shared, err := s.reportRepo.IsSharedWith(report.ID, userID)
		if err != nil {
			return nil, nil, err
		}
		if !shared {
			return nil, nil, ErrReportNotFound
		}
	}

	result, err := s.storage.Download(ctx, &storage.Location{Path: report.FilePath})
	if err != nil {
		return nil, nil, err
	}
	return report, result, nil
}

func (s *ReportService) Share(ownerID, reportID, targetUserID uuid.UUID) error {
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}
	if report.OwnerID != ownerID {
		return ErrReportNotOwner
	}

	target, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrShareTargetNotFound
	}

	return s.reportRepo.Share(reportID, targetUserID)
}

func (s *ReportService) ListForUser(userID uuid.UUID) ([]models.Report, error) {
	return s.reportRepo.ListForUser(userID)
}

func (s *ReportService) extensionAllowed(fileName string) bool {
	if len(s.cfg.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, allowed := range s.cfg.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func sanitizedFileName(name string) string {
	if name == "" {
		return uuid.NewString()
	}
	base := strings.TrimSpace(filepath.Base(name))
	if base == "" || base == "." {
		return uuid.NewString()
	}
	return base
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
