package database

import (
	"time"
)

// Package statuses, advanced only by the ingestion state machine.
// StatusReady and StatusError are terminal.
const (
	StatusPending    = "pending"
	StatusValidating = "validating"
	StatusStoring    = "storing"
	StatusParsing    = "parsing"
	StatusReady      = "ready"
	StatusError      = "error"
)

// IsTerminalStatus reports whether no further automatic transition occurs.
func IsTerminalStatus(status string) bool {
	return status == StatusReady || status == StatusError
}

// Package is an uploaded post processor package (one SRC + supporting
// files). FileCount and SectionCount stay nil until the state machine
// computes them; StoragePrefix is immutable once assigned.
type Package struct {
	ID             string
	Name           string
	MachineType    *string
	ControllerType *string
	Platform       string
	Status         string
	ErrorMessage   *string
	ErrorDetail    *string
	FileCount      *int
	SectionCount   *int
	StoragePrefix  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// File is a single stored file within a package. StorageKey is always the
// package storage prefix followed by the flattened filename.
type File struct {
	ID            string
	PackageID     string
	Filename      string
	FileExtension string
	StorageKey    string
	SizeBytes     int64
	ContentHash   string
	CreatedAt     time.Time
}
