package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateConversionRequest represents a request to create a new conversion
type CreateConversionRequest struct {
	Body struct {
		SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		FileSize  int64  `json:"file_size" minimum:"100" maximum:"20971520" required:"true" doc:"Report file size in bytes"`
		MimeType  string `json:"mime_type" enum:"text/html,application/xhtml+xml" required:"true" doc:"Report MIME type"`
		Format    string `json:"format,omitempty" enum:"graphiceq,plain" doc:"Preset output format, defaults to graphiceq"`
		Strict    *bool  `json:"strict,omitempty" doc:"Reject table cells that are not well-formed numbers after cleaning, defaults to the server setting"`
	}
}

// CreateConversionResponseBody is the body of the create conversion response
type CreateConversionResponseBody struct {
	ID        string `json:"id" doc:"Conversion unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for report upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateConversionResponse represents the response from creating a conversion
type CreateConversionResponse struct {
	Body CreateConversionResponseBody
}

// GetConversionStatusRequest represents a request to get conversion status
type GetConversionStatusRequest struct {
	ID string `path:"id" doc:"Conversion ID"`
}

// GetConversionStatusResponseBody is the body of the status response
type GetConversionStatusResponseBody struct {
	ID        string `json:"id" doc:"Conversion ID"`
	Status    string `json:"status" enum:"pending,processing,completed,failed" doc:"Conversion status"`
	Progress  int    `json:"progress" minimum:"0" maximum:"100" doc:"Conversion progress percentage"`
	Message   string `json:"message,omitempty" doc:"Human-readable status message"`
	ErrorKind string `json:"error_kind,omitempty" enum:"no_table,no_valid_data,input_not_found,output_write_failed" doc:"Failure classification when status is failed"`
}

// GetConversionStatusResponse represents the current status of a conversion
type GetConversionStatusResponse struct {
	Body GetConversionStatusResponseBody
}

// GetPresetRequest represents a request to get a generated preset
type GetPresetRequest struct {
	ID string `path:"id" doc:"Conversion ID"`
}

// GetPresetResponseBody is the body of the preset response
type GetPresetResponseBody struct {
	ID          string    `json:"id" doc:"Conversion ID"`
	Format      string    `json:"format" doc:"Preset output format"`
	Preset      string    `json:"preset" doc:"Rendered preset text"`
	Points      []EQPoint `json:"points" doc:"Correction bands the preset was rendered from"`
	DownloadURL string    `json:"download_url,omitempty" doc:"Pre-signed S3 URL for the preset file"`
	CreatedAt   time.Time `json:"created_at" doc:"Preset creation timestamp"`
}

// GetPresetResponse represents a completed conversion's preset
type GetPresetResponse struct {
	Body GetPresetResponseBody
}

// StartProcessingRequest represents a request to start processing an uploaded report
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Conversion ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// Conversion represents the core conversion entity (for internal use)
type Conversion struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	SourceS3Key *string    `json:"source_s3_key,omitempty"`
	Format      string     `json:"format"`
	Strict      bool       `json:"strict"`
	ErrorKind   *string    `json:"error_kind,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ConversionResult represents a stored preset
type ConversionResult struct {
	ID           string    `json:"id"`
	ConversionID string    `json:"conversion_id"`
	Format       string    `json:"format"`
	Preset       string    `json:"preset"`
	Points       []EQPoint `json:"points"`
	PresetS3Key  *string   `json:"preset_s3_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
