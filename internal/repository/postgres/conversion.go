package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/presetlab/eqgen/internal/repository"
	"github.com/presetlab/eqgen/pkg/models"
)

// PostgresConversionRepository implements ConversionRepository for PostgreSQL
type PostgresConversionRepository struct {
	db *sql.DB
}

// NewPostgresConversionRepository creates a new PostgreSQL conversion repository
func NewPostgresConversionRepository(db *sql.DB) repository.ConversionRepository {
	return &PostgresConversionRepository{db: db}
}

// Create inserts a new conversion record
func (r *PostgresConversionRepository) Create(ctx context.Context, conversion *models.Conversion) error {
	query := `
		INSERT INTO conversions (id, session_id, status, progress, source_s3_key, format, strict, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		conversion.ID,
		conversion.SessionID,
		conversion.Status,
		conversion.Progress,
		conversion.SourceS3Key,
		conversion.Format,
		conversion.Strict,
		conversion.CreatedAt,
		conversion.UpdatedAt)

	return err
}

// GetByID retrieves a conversion by ID
func (r *PostgresConversionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversion, error) {
	query := `
		SELECT id, session_id, status, progress, source_s3_key, format, strict, error_kind, error_message, created_at, updated_at, completed_at
		FROM conversions
		WHERE id = $1`

	return scanConversion(r.db.QueryRowContext(ctx, query, id))
}

// GetBySessionID retrieves conversions by session ID
func (r *PostgresConversionRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Conversion, error) {
	query := `
		SELECT id, session_id, status, progress, source_s3_key, format, strict, error_kind, error_message, created_at, updated_at, completed_at
		FROM conversions
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []*models.Conversion
	for rows.Next() {
		conversion, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, conversion)
	}

	return conversions, rows.Err()
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(s scanner) (*models.Conversion, error) {
	var conversion models.Conversion
	var sourceS3Key, errorKind, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := s.Scan(
		&conversion.ID,
		&conversion.SessionID,
		&conversion.Status,
		&conversion.Progress,
		&sourceS3Key,
		&conversion.Format,
		&conversion.Strict,
		&errorKind,
		&errorMsg,
		&conversion.CreatedAt,
		&conversion.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if sourceS3Key.Valid {
		conversion.SourceS3Key = &sourceS3Key.String
	}
	if errorKind.Valid {
		conversion.ErrorKind = &errorKind.String
	}
	if errorMsg.Valid {
		conversion.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		conversion.CompletedAt = &completedAt.Time
	}

	return &conversion, nil
}

// UpdateStatus updates the status and progress of a conversion
func (r *PostgresConversionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE conversions
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks a conversion failed with its error classification
func (r *PostgresConversionRepository) UpdateError(ctx context.Context, id uuid.UUID, kind, errorMsg string) error {
	query := `
		UPDATE conversions
		SET status = 'failed', error_kind = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, kind, errorMsg, id)
	return err
}

// StoreResult stores a generated preset
func (r *PostgresConversionRepository) StoreResult(ctx context.Context, result *models.ConversionResult) error {
	points, err := json.Marshal(result.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal correction points: %w", err)
	}

	query := `
		INSERT INTO conversion_results (id, conversion_id, format, preset, points, preset_s3_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		result.ID,
		result.ConversionID,
		result.Format,
		result.Preset,
		string(points),
		result.PresetS3Key,
		result.CreatedAt)

	return err
}

// GetResult retrieves a conversion's preset
func (r *PostgresConversionRepository) GetResult(ctx context.Context, conversionID uuid.UUID) (*models.ConversionResult, error) {
	query := `
		SELECT id, conversion_id, format, preset, points, preset_s3_key, created_at
		FROM conversion_results
		WHERE conversion_id = $1`

	var result models.ConversionResult
	var pointsStr string
	var presetS3Key sql.NullString

	err := r.db.QueryRowContext(ctx, query, conversionID).Scan(
		&result.ID,
		&result.ConversionID,
		&result.Format,
		&result.Preset,
		&pointsStr,
		&presetS3Key,
		&result.CreatedAt)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(pointsStr), &result.Points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal correction points: %w", err)
	}
	if presetS3Key.Valid {
		result.PresetS3Key = &presetS3Key.String
	}

	return &result, nil
}
