package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/presetlab/eqgen/internal/pipeline"
	"github.com/presetlab/eqgen/internal/render"
	"github.com/presetlab/eqgen/pkg/models"
)

// MockConversionRepository implements repository.ConversionRepository for testing
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) Create(ctx context.Context, conversion *models.Conversion) error {
	args := m.Called(ctx, conversion)
	return args.Error(0)
}

func (m *MockConversionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversion), args.Error(1)
}

func (m *MockConversionRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Conversion, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*models.Conversion), args.Error(1)
}

func (m *MockConversionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockConversionRepository) UpdateError(ctx context.Context, id uuid.UUID, kind, errorMsg string) error {
	args := m.Called(ctx, id, kind, errorMsg)
	return args.Error(0)
}

func (m *MockConversionRepository) StoreResult(ctx context.Context, result *models.ConversionResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockConversionRepository) GetResult(ctx context.Context, conversionID uuid.UUID) (*models.ConversionResult, error) {
	args := m.Called(ctx, conversionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionResult), args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockS3Service) CreateBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockConversionService implements pipeline.ConversionService for testing
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) ProcessConversion(ctx context.Context, conversionID uuid.UUID) error {
	args := m.Called(ctx, conversionID)
	return args.Error(0)
}

func newTestHandler(repo *MockConversionRepository, s3 *MockS3Service, svc *MockConversionService) *ConversionHandler {
	return NewConversionHandler(repo, s3, svc, render.FormatGraphicEQ, false)
}

func TestCreateConversion(t *testing.T) {
	tests := []struct {
		name      string
		fileSize  int64
		mimeType  string
		format    string
		mockSetup func(*MockConversionRepository, *MockS3Service)
		wantError bool
	}{
		{
			name:     "valid report",
			fileSize: 512000,
			mimeType: "text/html",
			mockSetup: func(mockRepo *MockConversionRepository, mockS3 *MockS3Service) {
				mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, "text/html").Return("https://example.com/upload", nil)
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Conversion")).Return(nil)
			},
			wantError: false,
		},
		{
			name:     "file too small",
			fileSize: 50,
			mimeType: "text/html",
			mockSetup: func(mockRepo *MockConversionRepository, mockS3 *MockS3Service) {
				// Validation fails before any S3 call
			},
			wantError: true,
		},
		{
			name:     "file too large",
			fileSize: 25 * 1024 * 1024,
			mimeType: "text/html",
			mockSetup: func(mockRepo *MockConversionRepository, mockS3 *MockS3Service) {
			},
			wantError: true,
		},
		{
			name:     "unsupported content type",
			fileSize: 512000,
			mimeType: "text/html",
			mockSetup: func(mockRepo *MockConversionRepository, mockS3 *MockS3Service) {
				mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, "text/html").Return("", assert.AnError)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockConversionRepository{}
			mockS3 := &MockS3Service{}
			mockSvc := &MockConversionService{}
			tt.mockSetup(mockRepo, mockS3)

			handler := newTestHandler(mockRepo, mockS3, mockSvc)

			req := &models.CreateConversionRequest{}
			req.Body.SessionID = "test-session-123"
			req.Body.FileSize = tt.fileSize
			req.Body.MimeType = tt.mimeType
			req.Body.Format = tt.format

			resp, err := handler.CreateConversion(context.Background(), req)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.NotEmpty(t, resp.Body.ID)
				assert.NotEmpty(t, resp.Body.UploadURL)
				assert.Equal(t, 900, resp.Body.ExpiresIn)
			}

			mockRepo.AssertExpectations(t)
			mockS3.AssertExpectations(t)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCreateConversion_AppliesDefaultFormat(t *testing.T) {
	mockRepo := &MockConversionRepository{}
	mockS3 := &MockS3Service{}
	mockSvc := &MockConversionService{}

	mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, "text/html").Return("https://example.com/upload", nil)

	var created *models.Conversion
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Conversion")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Conversion)
		}).Return(nil)

	handler := newTestHandler(mockRepo, mockS3, mockSvc)

	req := &models.CreateConversionRequest{}
	req.Body.SessionID = "test-session-123"
	req.Body.FileSize = 512000
	req.Body.MimeType = "text/html"

	_, err := handler.CreateConversion(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, render.FormatGraphicEQ, created.Format)
	assert.Equal(t, "pending", created.Status)
}

func TestCreateConversion_AppliesDefaultStrict(t *testing.T) {
	strictOff := false

	tests := []struct {
		name          string
		defaultStrict bool
		reqStrict     *bool
		wantStrict    bool
	}{
		{
			name:          "server default applies when omitted",
			defaultStrict: true,
			wantStrict:    true,
		},
		{
			name:          "explicit false overrides server default",
			defaultStrict: true,
			reqStrict:     &strictOff,
			wantStrict:    false,
		},
		{
			name:          "lenient by default",
			defaultStrict: false,
			wantStrict:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockConversionRepository{}
			mockS3 := &MockS3Service{}
			mockSvc := &MockConversionService{}

			mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, "text/html").Return("https://example.com/upload", nil)

			var created *models.Conversion
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Conversion")).
				Run(func(args mock.Arguments) {
					created = args.Get(1).(*models.Conversion)
				}).Return(nil)

			handler := NewConversionHandler(mockRepo, mockS3, mockSvc, render.FormatGraphicEQ, tt.defaultStrict)

			req := &models.CreateConversionRequest{}
			req.Body.SessionID = "test-session-123"
			req.Body.FileSize = 512000
			req.Body.MimeType = "text/html"
			req.Body.Strict = tt.reqStrict

			_, err := handler.CreateConversion(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, tt.wantStrict, created.Strict)
		})
	}
}

func TestGetConversionStatus(t *testing.T) {
	conversionID := uuid.New()
	errorKind := pipeline.KindNoTable
	errorMsg := "no table found in document"

	tests := []struct {
		name       string
		conversion *models.Conversion
		wantKind   string
		wantStatus string
	}{
		{
			name: "processing",
			conversion: &models.Conversion{
				ID:       conversionID.String(),
				Status:   "processing",
				Progress: 50,
			},
			wantStatus: "processing",
		},
		{
			name: "failed with classification",
			conversion: &models.Conversion{
				ID:        conversionID.String(),
				Status:    "failed",
				Progress:  50,
				ErrorKind: &errorKind,
				ErrorMsg:  &errorMsg,
			},
			wantStatus: "failed",
			wantKind:   pipeline.KindNoTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockConversionRepository{}
			mockS3 := &MockS3Service{}
			mockSvc := &MockConversionService{}

			mockRepo.On("GetByID", mock.Anything, conversionID).Return(tt.conversion, nil)

			handler := newTestHandler(mockRepo, mockS3, mockSvc)

			resp, err := handler.GetConversionStatus(context.Background(), &models.GetConversionStatusRequest{ID: conversionID.String()})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Body.Status)
			assert.Equal(t, tt.wantKind, resp.Body.ErrorKind)
			assert.NotEmpty(t, resp.Body.Message)
		})
	}
}

func TestGetConversionStatus_InvalidID(t *testing.T) {
	handler := newTestHandler(&MockConversionRepository{}, &MockS3Service{}, &MockConversionService{})

	_, err := handler.GetConversionStatus(context.Background(), &models.GetConversionStatusRequest{ID: "not-a-uuid"})
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	conversionID := uuid.New()
	presetKey := "presets/" + conversionID.String() + ".txt"

	mockRepo := &MockConversionRepository{}
	mockS3 := &MockS3Service{}
	mockSvc := &MockConversionService{}

	mockRepo.On("GetByID", mock.Anything, conversionID).Return(&models.Conversion{
		ID:     conversionID.String(),
		Status: "completed",
	}, nil)
	mockRepo.On("GetResult", mock.Anything, conversionID).Return(&models.ConversionResult{
		ID:           uuid.New().String(),
		ConversionID: conversionID.String(),
		Format:       render.FormatGraphicEQ,
		Preset:       "GraphicEQ: 20 5.50; 54 -3.20\n",
		Points: []models.EQPoint{
			{Frequency: 20, Gain: 5.5},
			{Frequency: 54, Gain: -3.2},
		},
		PresetS3Key: &presetKey,
		CreatedAt:   time.Now(),
	}, nil)
	mockS3.On("GenerateDownloadURL", mock.Anything, presetKey).Return("https://example.com/preset.txt", nil)

	handler := newTestHandler(mockRepo, mockS3, mockSvc)

	resp, err := handler.GetPreset(context.Background(), &models.GetPresetRequest{ID: conversionID.String()})
	require.NoError(t, err)
	assert.Equal(t, "GraphicEQ: 20 5.50; 54 -3.20\n", resp.Body.Preset)
	assert.Len(t, resp.Body.Points, 2)
	assert.Equal(t, "https://example.com/preset.txt", resp.Body.DownloadURL)
}

func TestGetPreset_NotCompleted(t *testing.T) {
	conversionID := uuid.New()

	mockRepo := &MockConversionRepository{}
	mockRepo.On("GetByID", mock.Anything, conversionID).Return(&models.Conversion{
		ID:     conversionID.String(),
		Status: "processing",
	}, nil)

	handler := newTestHandler(mockRepo, &MockS3Service{}, &MockConversionService{})

	_, err := handler.GetPreset(context.Background(), &models.GetPresetRequest{ID: conversionID.String()})
	assert.Error(t, err)
}
