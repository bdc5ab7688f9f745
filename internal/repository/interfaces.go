package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/presetlab/eqgen/pkg/models"
)

// ConversionRepository defines the interface for conversion data operations
type ConversionRepository interface {
	Create(ctx context.Context, conversion *models.Conversion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversion, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Conversion, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, kind, errorMsg string) error
	StoreResult(ctx context.Context, result *models.ConversionResult) error
	GetResult(ctx context.Context, conversionID uuid.UUID) (*models.ConversionResult, error)
}
