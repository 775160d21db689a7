package web

import (
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// Video is an uploaded or imported source video.
type Video struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Filename        string    `json:"filename"`
	StoredPath      string    `json:"-"`
	SizeBytes       int64     `json:"size_bytes"`
	DurationSeconds float64   `json:"duration_seconds"`
	VideoCodec      string    `json:"video_codec"`
	AudioCodec      string    `json:"audio_codec"`
	Source          string    `json:"source"` // upload or drive
}

// Job statuses.
const (
	JobStatusDone   = "done"
	JobStatusFailed = "failed"
)

// ClipJob records one trim request against a video and its outcome.
type ClipJob struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	VideoID    uint      `gorm:"index" json:"video_id"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Mode       string    `json:"mode"`        // requested: auto, copy, reencode
	ResultMode string    `json:"result_mode"` // decided: copy or reencode
	Snapped    bool      `json:"snapped"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	VideoPath  string    `json:"-"`
	AudioPath  string    `json:"-"`
	VideoURL   string    `json:"video_url,omitempty"` // Drive link after upload
	AudioURL   string    `json:"audio_url,omitempty"`
}

// VideoFileName is the downloadable name of the trimmed clip.
func (j ClipJob) VideoFileName() string {
	return filepath.Base(j.VideoPath)
}

// AudioFileName is the downloadable name of the extracted audio.
func (j ClipJob) AudioFileName() string {
	return filepath.Base(j.AudioPath)
}

// migrate creates or updates the schema.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Video{}, &ClipJob{})
}
