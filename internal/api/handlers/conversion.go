package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/presetlab/eqgen/internal/pipeline"
	"github.com/presetlab/eqgen/internal/repository"
	"github.com/presetlab/eqgen/internal/storage"
	"github.com/presetlab/eqgen/pkg/models"
)

// ConversionHandler handles conversion-related HTTP requests
type ConversionHandler struct {
	repo          repository.ConversionRepository
	s3Service     storage.S3Service
	conversionSvc pipeline.ConversionService
	defaultFormat string
	defaultStrict bool
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(repo repository.ConversionRepository, s3Service storage.S3Service, conversionSvc pipeline.ConversionService, defaultFormat string, defaultStrict bool) *ConversionHandler {
	return &ConversionHandler{
		repo:          repo,
		s3Service:     s3Service,
		conversionSvc: conversionSvc,
		defaultFormat: defaultFormat,
		defaultStrict: defaultStrict,
	}
}

// CreateConversion creates a new conversion and returns an upload URL
func (h *ConversionHandler) CreateConversion(ctx context.Context, req *models.CreateConversionRequest) (*models.CreateConversionResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("format", req.Body.Format).Msg("Creating new conversion")

	conversionID := uuid.New()
	sourceKey := fmt.Sprintf("reports/%s.html", conversionID)

	// Validate file size explicitly
	if req.Body.FileSize < 100 {
		return nil, huma.Error400BadRequest("Report file too small. Save the full measurement page as HTML.", nil)
	}
	if req.Body.FileSize > 20*1024*1024 {
		return nil, huma.Error400BadRequest("Report file too large.", nil)
	}

	format := req.Body.Format
	if format == "" {
		format = h.defaultFormat
	}

	strict := h.defaultStrict
	if req.Body.Strict != nil {
		strict = *req.Body.Strict
	}

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, sourceKey, req.Body.MimeType)
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Report format not supported. Upload the saved HTML page.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	conversion := &models.Conversion{
		ID:          conversionID.String(),
		SessionID:   req.Body.SessionID,
		Status:      "pending",
		Progress:    0,
		SourceS3Key: &sourceKey,
		Format:      format,
		Strict:      strict,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.repo.Create(ctx, conversion); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create conversion", err)
	}
	log.Info().Str("conversionID", conversion.ID).Str("sessionID", conversion.SessionID).Msg("Conversion record created")

	return &models.CreateConversionResponse{
		Body: models.CreateConversionResponseBody{
			ID:        conversion.ID,
			UploadURL: uploadURL,
			ExpiresIn: int((15 * time.Minute).Seconds()),
		},
	}, nil
}

// GetConversionStatus returns the current status of a conversion
func (h *ConversionHandler) GetConversionStatus(ctx context.Context, req *models.GetConversionStatusRequest) (*models.GetConversionStatusResponse, error) {
	conversionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid conversion ID", err)
	}

	conversion, err := h.repo.GetByID(ctx, conversionID)
	if err != nil {
		return nil, huma.Error404NotFound("Conversion not found", err)
	}

	body := models.GetConversionStatusResponseBody{
		ID:       conversion.ID,
		Status:   conversion.Status,
		Progress: conversion.Progress,
		Message:  statusMessage(conversion.Status, conversion.Progress),
	}
	if conversion.ErrorKind != nil {
		body.ErrorKind = *conversion.ErrorKind
	}

	return &models.GetConversionStatusResponse{Body: body}, nil
}

// GetPreset returns the generated preset for a completed conversion
func (h *ConversionHandler) GetPreset(ctx context.Context, req *models.GetPresetRequest) (*models.GetPresetResponse, error) {
	conversionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid conversion ID", err)
	}

	conversion, err := h.repo.GetByID(ctx, conversionID)
	if err != nil {
		return nil, huma.Error404NotFound("Conversion not found", err)
	}

	if conversion.Status != "completed" {
		return nil, huma.Error409Conflict("Conversion not yet completed",
			fmt.Errorf("conversion status is %s", conversion.Status))
	}

	result, err := h.repo.GetResult(ctx, conversionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get preset", err)
	}

	body := models.GetPresetResponseBody{
		ID:        conversion.ID,
		Format:    result.Format,
		Preset:    result.Preset,
		Points:    result.Points,
		CreatedAt: result.CreatedAt,
	}
	if result.PresetS3Key != nil {
		// Best effort: the preset text is already in the body
		if url, err := h.s3Service.GenerateDownloadURL(ctx, *result.PresetS3Key); err == nil {
			body.DownloadURL = url
		}
	}

	return &models.GetPresetResponse{Body: body}, nil
}

// StartProcessing starts processing an uploaded report
func (h *ConversionHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	conversionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid conversion ID", err)
	}

	if _, err := h.repo.GetByID(ctx, conversionID); err != nil {
		return nil, huma.Error404NotFound("Conversion not found", err)
	}

	log.Info().Str("conversionID", conversionID.String()).Msg("Starting background conversion")
	go func() {
		if err := h.conversionSvc.ProcessConversion(context.Background(), conversionID); err != nil {
			h.repo.UpdateError(context.Background(), conversionID, "", fmt.Sprintf("Processing failed: %v", err))
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Conversion queued for processing..."
	case "processing":
		if progress < 25 {
			return "Starting conversion..."
		} else if progress < 50 {
			return "Downloading report..."
		} else if progress < 75 {
			return "Extracting frequency response table..."
		}
		return "Rendering preset..."
	case "completed":
		return "Preset ready!"
	case "failed":
		return "Conversion failed. Check the report file and try again."
	default:
		return "Unknown status"
	}
}
