package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/presetlab/eqgen/internal/api/handlers"
	"github.com/presetlab/eqgen/internal/pipeline"
	"github.com/presetlab/eqgen/internal/repository"
	"github.com/presetlab/eqgen/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, s3Service storage.S3Service, conversionRepo repository.ConversionRepository, conversionSvc pipeline.ConversionService, defaultFormat string, defaultStrict bool) {
	conversionHandler := handlers.NewConversionHandler(conversionRepo, s3Service, conversionSvc, defaultFormat, defaultStrict)

	huma.Register(api, huma.Operation{
		OperationID: "createConversion",
		Method:      http.MethodPost,
		Path:        "/api/conversions",
		Summary:     "Create a new conversion",
		Description: "Creates a new conversion record and returns an upload URL for the report",
		Tags:        []string{"Conversion"},
	}, conversionHandler.CreateConversion)

	huma.Register(api, huma.Operation{
		OperationID: "getConversionStatus",
		Method:      http.MethodGet,
		Path:        "/api/conversions/{id}/status",
		Summary:     "Get conversion status",
		Description: "Returns the current status and progress of a conversion",
		Tags:        []string{"Conversion"},
	}, conversionHandler.GetConversionStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getPreset",
		Method:      http.MethodGet,
		Path:        "/api/conversions/{id}/preset",
		Summary:     "Get generated preset",
		Description: "Returns the rendered preset text and correction bands for a completed conversion",
		Tags:        []string{"Conversion"},
	}, conversionHandler.GetPreset)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/conversions/{id}/process",
		Summary:     "Start processing conversion",
		Description: "Starts processing an uploaded report",
		Tags:        []string{"Conversion"},
	}, conversionHandler.StartProcessing)
}
