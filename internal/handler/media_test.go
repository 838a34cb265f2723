package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemusic/internal/model"
)

const presignPath = "/uploads/tracks/presign"

func TestMediaHandler_PresignTrackUpload(t *testing.T) {
	presigner := &mockTrackPresigner{}
	guard := &mockUploadGuard{}
	h := NewMediaHandler(presigner, &mockTrackCatalog{}, guard)

	rec := serve(t, http.MethodPost, presignPath, presignPath, `{"content_type":"audio/mpeg","file_size":2048}`, 1, h.PresignTrackUpload)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://r2/upload", decode(t, rec)["upload_url"])
	assert.Equal(t, "192.0.2.10", guard.ipArg)
	assert.Equal(t, 1, presigner.calls)
}

func TestMediaHandler_Restricted(t *testing.T) {
	presigner := &mockTrackPresigner{}
	guard := &mockUploadGuard{status: model.RestrictionStatus{Restricted: true, RetryAfter: 5 * time.Hour}}
	h := NewMediaHandler(presigner, &mockTrackCatalog{}, guard)

	rec := serve(t, http.MethodPost, presignPath, presignPath, `{"content_type":"audio/mpeg"}`, 1, h.PresignTrackUpload)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "18000", rec.Header().Get("Retry-After"))
	assert.Equal(t, model.CodeUploadRestricted, decode(t, rec)["code"])
	assert.Zero(t, presigner.calls)
}

func TestMediaHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		guardErr   error
		presignErr error
		wantStatus int
		wantCode   string
	}{
		{name: "missing content type", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "negative size", body: `{"content_type":"audio/ogg","file_size":-1}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "bad type", body: `{"content_type":"video/mp4"}`, presignErr: model.ErrInvalidAudioType, wantStatus: http.StatusBadRequest, wantCode: model.CodeInvalidAudioType},
		{name: "too large", body: `{"content_type":"audio/flac","file_size":999999999}`, presignErr: model.ErrFileTooLarge, wantStatus: http.StatusBadRequest, wantCode: model.CodeFileTooLarge},
		{name: "guard failure", body: `{"content_type":"audio/flac"}`, guardErr: errors.New("redis down"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			presigner := &mockTrackPresigner{presignFn: func(ctx context.Context, userID int64, contentType string, fileSize int64) (*model.PresignUploadResponse, error) {
				return nil, tt.presignErr
			}}
			h := NewMediaHandler(presigner, &mockTrackCatalog{}, &mockUploadGuard{err: tt.guardErr})

			rec := serve(t, http.MethodPost, presignPath, presignPath, tt.body, 1, h.PresignTrackUpload)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode(t, rec)["code"])
		})
	}
}

func TestMediaHandler_Disabled(t *testing.T) {
	h := NewMediaHandler(nil, &mockTrackCatalog{}, &mockUploadGuard{})

	rec := serve(t, http.MethodPost, presignPath, presignPath, `{"content_type":"audio/mpeg"}`, 1, h.PresignTrackUpload)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

const confirmPath = "/uploads/tracks"

func TestMediaHandler_ConfirmTrackUpload(t *testing.T) {
	tracks := &mockTrackCatalog{}
	guard := &mockUploadGuard{}
	h := NewMediaHandler(&mockTrackPresigner{}, tracks, guard)

	rec := serve(t, http.MethodPost, confirmPath, confirmPath, `{"key":" tracks/1/a.mp3 ","title":"Airbag"}`, 1, h.ConfirmTrackUpload)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, tracks.confirmReqs, 1)
	assert.Equal(t, "tracks/1/a.mp3", tracks.confirmReqs[0].Key)
	assert.Equal(t, "192.0.2.10", guard.ipArg)
	assert.Equal(t, "Airbag", decode(t, rec)["title"])
}

func TestMediaHandler_ConfirmTrackUpload_Restricted(t *testing.T) {
	tracks := &mockTrackCatalog{}
	guard := &mockUploadGuard{status: model.RestrictionStatus{Restricted: true, RetryAfter: time.Minute}}
	h := NewMediaHandler(&mockTrackPresigner{}, tracks, guard)

	rec := serve(t, http.MethodPost, confirmPath, confirmPath, `{"key":"tracks/1/a.mp3","title":"Airbag"}`, 1, h.ConfirmTrackUpload)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, tracks.confirmReqs)
}

func TestMediaHandler_ConfirmTrackUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "missing title", body: `{"key":"tracks/1/a.mp3"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "foreign key", body: `{"key":"tracks/2/a.mp3","title":"t"}`, svcErr: model.ErrInvalidTrackKey, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "not uploaded", body: `{"key":"tracks/1/a.mp3","title":"t"}`, svcErr: model.ErrUploadMissing, wantStatus: http.StatusBadRequest, wantCode: model.CodeUploadMissing},
		{name: "too large", body: `{"key":"tracks/1/a.mp3","title":"t"}`, svcErr: model.ErrFileTooLarge, wantStatus: http.StatusBadRequest, wantCode: model.CodeFileTooLarge},
		{name: "duplicate", body: `{"key":"tracks/1/a.mp3","title":"t"}`, svcErr: model.ErrTrackExists, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "unknown artist", body: `{"key":"tracks/1/a.mp3","title":"t","artist_id":8}`, svcErr: model.ErrArtistNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "disabled", body: `{"key":"tracks/1/a.mp3","title":"t"}`, svcErr: model.ErrUploadsDisabled, wantStatus: http.StatusServiceUnavailable, wantCode: "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := &mockTrackCatalog{confirmFn: func(ctx context.Context, userID int64, req *model.ConfirmTrackUploadRequest) (*model.Track, error) {
				return nil, tt.svcErr
			}}
			h := NewMediaHandler(nil, tracks, &mockUploadGuard{})

			rec := serve(t, http.MethodPost, confirmPath, confirmPath, tt.body, 1, h.ConfirmTrackUpload)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode(t, rec)["code"])
		})
	}
}

func TestMediaHandler_GetTrack(t *testing.T) {
	tracks := &mockTrackCatalog{getFn: func(ctx context.Context, trackID int64, viewerID *int64) (*model.Track, error) {
		if trackID != 4 {
			return nil, model.ErrTrackNotFound
		}
		return &model.Track{ID: 4, AudioURL: "https://cdn.example/tracks/1/a.mp3", LikeCount: 2}, nil
	}}
	h := NewMediaHandler(nil, tracks, &mockUploadGuard{})

	rec := serve(t, http.MethodGet, "/tracks/{id}", "/tracks/4", "", 0, h.GetTrack)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["like_count"])

	rec = serve(t, http.MethodGet, "/tracks/{id}", "/tracks/5", "", 0, h.GetTrack)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
