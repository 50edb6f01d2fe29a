package api

import (
	"time"

	"github.com/cameronc-hrs/veripost/app/database"
	"github.com/cameronc-hrs/veripost/app/parsing"
)

// ErrorResponse is the structured error body for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code"`
}

// UploadResponse is returned with 202 once a package is accepted and its
// ingestion job is enqueued.
type UploadResponse struct {
	PackageID string `json:"package_id"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
}

// StatusResponse is the polling projection of a package's ingestion state.
type StatusResponse struct {
	PackageID    string  `json:"package_id"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message"`
	ErrorDetail  *string `json:"error_detail"`
	FileCount    *int    `json:"file_count"`
	SectionCount *int    `json:"section_count"`
}

// PackageResponse is the full read-only package projection.
type PackageResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MachineType    *string   `json:"machine_type"`
	ControllerType *string   `json:"controller_type"`
	Platform       string    `json:"platform"`
	Status         string    `json:"status"`
	ErrorMessage   *string   `json:"error_message"`
	FileCount      *int      `json:"file_count"`
	SectionCount   *int      `json:"section_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PackageListResponse wraps the newest-first package listing.
type PackageListResponse struct {
	Packages []PackageResponse `json:"packages"`
	Count    int               `json:"count"`
}

// AnalyzeRequest optionally carries a question for the copilot alongside
// the structural parse.
type AnalyzeRequest struct {
	Question string `json:"question"`
}

// AnalyzeResponse combines the structural parse of the anchor file with an
// optional copilot answer.
type AnalyzeResponse struct {
	Parsed *parsing.ParsedPost `json:"parsed"`
	Answer string              `json:"answer,omitempty"`
}

func packageResponse(pkg *database.Package) PackageResponse {
	return PackageResponse{
		ID:             pkg.ID,
		Name:           pkg.Name,
		MachineType:    pkg.MachineType,
		ControllerType: pkg.ControllerType,
		Platform:       pkg.Platform,
		Status:         pkg.Status,
		ErrorMessage:   pkg.ErrorMessage,
		FileCount:      pkg.FileCount,
		SectionCount:   pkg.SectionCount,
		CreatedAt:      pkg.CreatedAt,
		UpdatedAt:      pkg.UpdatedAt,
	}
}
