package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/presetlab/eqgen/internal/eq"
	"github.com/presetlab/eqgen/internal/extract"
	"github.com/presetlab/eqgen/internal/render"
	"github.com/presetlab/eqgen/internal/repository"
	"github.com/presetlab/eqgen/internal/storage"
	"github.com/presetlab/eqgen/pkg/models"
)

// ConversionService processes uploaded reports asynchronously.
type ConversionService interface {
	ProcessConversion(ctx context.Context, conversionID uuid.UUID) error
}

type conversionService struct {
	s3         storage.S3Service
	repository repository.ConversionRepository
}

// NewConversionService creates a new conversion processing service.
func NewConversionService(s3Service storage.S3Service, repo repository.ConversionRepository) ConversionService {
	return &conversionService{
		s3:         s3Service,
		repository: repo,
	}
}

// ProcessConversion downloads the uploaded report, runs the
// extract/correct/render pipeline and stores the preset. Pipeline
// failures mark the conversion failed with their classification and
// return nil; infrastructure failures propagate to the caller.
func (s *conversionService) ProcessConversion(ctx context.Context, conversionID uuid.UUID) error {
	if err := s.repository.UpdateStatus(ctx, conversionID, "processing", 10); err != nil {
		return err
	}

	conversion, err := s.repository.GetByID(ctx, conversionID)
	if err != nil {
		return err
	}

	if conversion.SourceS3Key == nil {
		s.repository.UpdateError(ctx, conversionID, KindInputNotFound, "No report uploaded for this conversion")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, conversionID, "processing", 20); err != nil {
		return err
	}

	data, err := s.s3.DownloadFile(ctx, *conversion.SourceS3Key)
	if err != nil {
		s.repository.UpdateError(ctx, conversionID, KindInputNotFound, "Failed to download report")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, conversionID, "processing", 50); err != nil {
		return err
	}

	rows, headers, err := extract.Rows(bytes.NewReader(data), extract.Options{Strict: conversion.Strict})
	if err != nil {
		if kind := KindOf(err); kind != "" {
			s.repository.UpdateError(ctx, conversionID, kind, err.Error())
			return nil
		}
		return err
	}

	log.Info().
		Str("conversionID", conversion.ID).
		Strs("headers", headers).
		Int("rows", len(rows)).
		Msg("Report table extracted")

	points := eq.Correct(rows)

	formatter, err := render.ForName(conversion.Format)
	if err != nil {
		// Format was validated at creation time; a bad value here means
		// the record itself is corrupt.
		s.repository.UpdateError(ctx, conversionID, KindOutputWrite, err.Error())
		return nil
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, points); err != nil {
		s.repository.UpdateError(ctx, conversionID, KindOutputWrite, "Failed to render preset")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, conversionID, "processing", 80); err != nil {
		return err
	}

	presetKey := fmt.Sprintf("presets/%s.txt", conversionID)
	if err := s.s3.UploadFile(ctx, presetKey, "text/plain", buf.Bytes()); err != nil {
		s.repository.UpdateError(ctx, conversionID, KindOutputWrite, "Failed to store preset")
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, conversionID, "processing", 90); err != nil {
		return err
	}

	result := &models.ConversionResult{
		ID:           uuid.New().String(),
		ConversionID: conversion.ID,
		Format:       conversion.Format,
		Preset:       buf.String(),
		Points:       points,
		PresetS3Key:  &presetKey,
		CreatedAt:    time.Now(),
	}

	if err := s.repository.StoreResult(ctx, result); err != nil {
		return err
	}

	return s.repository.UpdateStatus(ctx, conversionID, "completed", 100)
}
