package model

import (
	"errors"
	"time"
)

const (
	MaxTrackSizeBytes = 50 * 1024 * 1024 // 50MB per track
	TrackFolder       = "tracks"
	PresignExpiry     = 15 * time.Minute
)

var allowedAudioTypes = map[string]string{
	"audio/mpeg": ".mp3",
	"audio/mp4":  ".m4a",
	"audio/ogg":  ".ogg",
	"audio/wav":  ".wav",
	"audio/flac": ".flac",
}

// AudioExtension returns the file extension for a supported audio content type.
func AudioExtension(contentType string) (string, bool) {
	ext, ok := allowedAudioTypes[contentType]
	return ext, ok
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidAudioType = "INVALID_AUDIO_TYPE"
	CodeUploadRestricted = "UPLOAD_RESTRICTED"
	CodeUploadMissing    = "UPLOAD_NOT_FOUND"
)

// IPChangeLog records the client IP of an upload attempt.
type IPChangeLog struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	IP            string    `db:"ip" json:"ip"`
	BytesUploaded int64     `db:"bytes_uploaded" json:"bytes_uploaded"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// RestrictionStatus reports whether uploads are blocked and for how long.
type RestrictionStatus struct {
	Restricted bool
	RetryAfter time.Duration
}

// PresignTrackUploadRequest requests a presigned URL for uploading a track directly to R2.
type PresignTrackUploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
}

// PresignUploadResponse returns upload details for direct-to-R2 uploads.
type PresignUploadResponse struct {
	UploadURL  string `json:"upload_url"`
	PublicURL  string `json:"public_url"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expires_in"`
}

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidAudioType = errors.New("invalid audio type")
	ErrUploadRestricted = errors.New("uploads temporarily restricted")
	ErrUploadsDisabled  = errors.New("uploads are not configured")
)

// IsAudioExtension reports whether ext is one AudioExtension can return.
func IsAudioExtension(ext string) bool {
	for _, e := range allowedAudioTypes {
		if e == ext {
			return true
		}
	}
	return false
}
