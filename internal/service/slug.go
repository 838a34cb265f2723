package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"vibemusic/internal/model"
)

const (
	maxSlugLength   = 240
	maxSlugAttempts = 20
)

// slugFor transliterates s into a URL slug, using fallback when nothing survives.
func slugFor(s, fallback string) string {
	v := slug.Make(s)
	if len(v) > maxSlugLength {
		v = strings.TrimRight(v[:maxSlugLength], "-")
	}
	if v == "" {
		return fallback
	}
	return v
}

// withUniqueSlug calls insert with base, base-1, base-2 and so on until the
// store stops reporting model.ErrSlugTaken.
func withUniqueSlug(base string, insert func(candidate string) error) error {
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		err := insert(candidate)
		if !errors.Is(err, model.ErrSlugTaken) {
			return err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return model.ErrSlugTaken
}
