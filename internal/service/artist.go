package service

import (
	"context"

	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/repository"
)

type ArtistService struct {
	artists repository.ArtistRepository
}

func NewArtistService(artists repository.ArtistRepository) *ArtistService {
	return &ArtistService{artists: artists}
}

// Create adds an artist page. The slug is derived from the name.
func (s *ArtistService) Create(ctx context.Context, req *model.CreateArtistRequest) (*model.Artist, error) {
	artist := &model.Artist{Name: req.Name, Bio: req.Bio}

	err := withUniqueSlug(slugFor(req.Name, "artist"), func(candidate string) error {
		artist.Slug = candidate
		return s.artists.Create(ctx, artist)
	})
	if err != nil {
		return nil, err
	}

	logger.For("artist").WithField("artist_id", artist.ID).WithField("slug", artist.Slug).Info("artist created")
	return artist, nil
}

func (s *ArtistService) GetBySlug(ctx context.Context, slug string, viewerID *int64) (*model.Artist, error) {
	return s.artists.GetBySlug(ctx, slug, viewerID)
}
