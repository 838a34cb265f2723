package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

// UploadInspector reports the size of an object uploaded to storage.
type UploadInspector interface {
	UploadedSize(ctx context.Context, key string) (int64, error)
}

// TrackService turns completed direct uploads into track rows.
type TrackService struct {
	tracks    repository.TrackRepository
	uploads   UploadInspector
	publicURL string
}

// NewTrackService accepts a nil inspector when uploads are disabled; tracks
// can then be read but not registered.
func NewTrackService(tracks repository.TrackRepository, uploads UploadInspector, publicURL string) *TrackService {
	return &TrackService{
		tracks:    tracks,
		uploads:   uploads,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Confirm registers the object at req.Key as a track owned by userID. The key
// must be one presigned for this user and the object must already exist.
func (s *TrackService) Confirm(ctx context.Context, userID int64, req *model.ConfirmTrackUploadRequest) (*model.Track, error) {
	if s.uploads == nil {
		return nil, model.ErrUploadsDisabled
	}
	if !ownsTrackKey(userID, req.Key) {
		return nil, model.ErrInvalidTrackKey
	}

	size, err := s.uploads.UploadedSize(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if size > model.MaxTrackSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	track := &model.Track{
		UserID:   &userID,
		ArtistID: req.ArtistID,
		Title:    req.Title,
		AudioKey: req.Key,
	}
	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, err
	}
	track.AudioURL = s.audioURL(track.AudioKey)

	logger.For("track").WithFields(logrus.Fields{
		"user_id":  userID,
		"track_id": track.ID,
		"bytes":    size,
	}).Info("track registered")
	return track, nil
}

func (s *TrackService) Get(ctx context.Context, trackID int64, viewerID *int64) (*model.Track, error) {
	track, err := s.tracks.GetByID(ctx, trackID, viewerID)
	if err != nil {
		return nil, err
	}
	track.AudioURL = s.audioURL(track.AudioKey)
	return track, nil
}

func (s *TrackService) audioURL(key string) string {
	if s.publicURL == "" {
		return ""
	}
	return s.publicURL + "/" + key
}

// ownsTrackKey matches keys of the form tracks/<userID>/<name><audio ext>.
func ownsTrackKey(userID int64, key string) bool {
	prefix := fmt.Sprintf("%s/%d/", model.TrackFolder, userID)
	name, ok := strings.CutPrefix(key, prefix)
	if !ok || name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
		return false
	}
	return model.IsAudioExtension(path.Ext(name))
}
