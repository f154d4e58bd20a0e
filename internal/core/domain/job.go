package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrJobNotFound is returned when no job has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// Job statuses
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// CleaningJob is a batch of texts cleaned in the background.
type CleaningJob struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Status          string     `gorm:"type:varchar(20);not null;default:'queued';index" json:"status"`
	Transformations StringList `gorm:"type:jsonb;not null" json:"transformations"`
	Preset          string     `gorm:"type:varchar(100)" json:"preset,omitempty"`
	Signature       string     `gorm:"type:text" json:"signature"`
	TotalTexts      int        `gorm:"default:0" json:"total_texts"`
	ProcessedTexts  int        `gorm:"default:0" json:"processed_texts"`
	InputPath       string     `gorm:"type:text" json:"-"`
	OutputPath      string     `gorm:"type:text" json:"-"`
	Error           string     `gorm:"type:text" json:"error,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (CleaningJob) TableName() string {
	return "cleaning_jobs"
}

// BeforeCreate GORM hook - called before creating a record
func (j *CleaningJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusQueued
	}
	return nil
}

// MarkRunning records the start of processing.
func (j *CleaningJob) MarkRunning(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// MarkCompleted records a successful run.
func (j *CleaningJob) MarkCompleted(processed int, outputPath string, now time.Time) {
	j.Status = JobStatusCompleted
	j.ProcessedTexts = processed
	j.OutputPath = outputPath
	j.CompletedAt = &now
}

// MarkFailed records a failed run.
func (j *CleaningJob) MarkFailed(err error, now time.Time) {
	j.Status = JobStatusFailed
	j.Error = err.Error()
	j.CompletedAt = &now
}

// Finished reports whether the job reached a terminal status.
func (j *CleaningJob) Finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ValidJobStatuses returns list of valid job statuses
func ValidJobStatuses() []string {
	return []string{
		JobStatusQueued,
		JobStatusRunning,
		JobStatusCompleted,
		JobStatusFailed,
	}
}

// IsValidJobStatus checks if a status is valid
func IsValidJobStatus(status string) bool {
	for _, s := range ValidJobStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
