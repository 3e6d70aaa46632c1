package model

import "github.com/google/uuid"

// ArtifactStatus describes what happened to an artifact on disk.
type ArtifactStatus string

const (
	StatusCreated  ArtifactStatus = "created"
	StatusUpdated  ArtifactStatus = "updated"
	StatusConflict ArtifactStatus = "conflict"
	StatusSkipped  ArtifactStatus = "skipped"
)

// Artifact is one generated file for a component.
type Artifact struct {
	Kind    string         `json:"kind" yaml:"kind"`
	Path    string         `json:"path" yaml:"path"`
	Content string         `json:"content,omitempty" yaml:"content,omitempty"`
	Status  ArtifactStatus `json:"status,omitempty" yaml:"status,omitempty"`
	// WrittenTo differs from Path when a conflict was written beside the original.
	WrittenTo string `json:"writtenTo,omitempty" yaml:"writtenTo,omitempty"`
	Backup    string `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// FileWarnings are the warnings recorded for one source file.
type FileWarnings struct {
	FilePath string   `json:"filePath" yaml:"filePath"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// FileError is the error that stopped one source file from converting.
type FileError struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Error    string `json:"error" yaml:"error"`
}

// BatchResult summarizes a conversion run.
type BatchResult struct {
	RunID        uuid.UUID      `json:"runId" yaml:"runId"`
	SuccessCount int            `json:"successCount" yaml:"successCount"`
	WarningCount int            `json:"warningCount" yaml:"warningCount"`
	ErrorCount   int            `json:"errorCount" yaml:"errorCount"`
	Warnings     []FileWarnings `json:"warnings" yaml:"warnings"`
	Errors       []FileError    `json:"errors" yaml:"errors"`
	Artifacts    []Artifact     `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	IRs          []*IR          `json:"-" yaml:"-"`
}

// NewBatchResult returns an empty result with a fresh run ID.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		RunID:    uuid.New(),
		Warnings: make([]FileWarnings, 0),
		Errors:   make([]FileError, 0),
	}
}
