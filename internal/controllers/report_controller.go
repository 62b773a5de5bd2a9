package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/services"
)

type ReportController struct {
	reportService *services.ReportService
}

func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

type shareReportRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Upload stores a report document
// POST /api/reports
func (rc *ReportController) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title field is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	report, err := rc.reportService.Upload(c.Request.Context(), userID, services.UploadReportInput{
		Title:       title,
		Type:        c.PostForm("type"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrFileTypeNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to upload report"})
		}
		return
	}

	c.JSON(http.StatusCreated, report)
}

// List returns reports the caller owns or was given access to
// GET /api/reports
func (rc *ReportController) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	reports, err := rc.reportService.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Download streams a report document
// GET /api/reports/:id/download
func (rc *ReportController) Download(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	report, result, err := rc.reportService.Download(c.Request.Context(), userID, reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to download report"})
		}
		return
	}
	defer result.Reader.Close()

	contentType := result.ContentType
	if contentType == "" && report.MimeType != nil {
		contentType = *report.MimeType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.DataFromReader(http.StatusOK, result.Size, contentType, result.Reader, nil)
}

// Share grants another user access to a report
// POST /api/reports/:id/share
func (rc *ReportController) Share(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	var req shareReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := rc.reportService.Share(userID, reportID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		case errors.Is(err, services.ErrReportNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the report owner may share it"})
		case errors.Is(err, services.ErrShareTargetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User to share with not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to share report"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report shared successfully"})
}
