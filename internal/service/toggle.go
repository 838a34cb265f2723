package service

import (
	"vibemusic/internal/model"
)

// toggleEdge flips the presence of a unique row. create reports whether it
// inserted a row; remove reports whether it deleted one. When neither happens
// a concurrent toggle removed the row between the two statements, so the pair
// is retried up to model.MaxToggleAttempts times.
//
// The returned bool is true when the row now exists.
func toggleEdge(create, remove func() (bool, error)) (bool, error) {
	for attempt := 0; attempt < model.MaxToggleAttempts; attempt++ {
		inserted, err := create()
		if err != nil {
			return false, err
		}
		if inserted {
			return true, nil
		}

		deleted, err := remove()
		if err != nil {
			return false, err
		}
		if deleted {
			return false, nil
		}
	}
	return false, model.ErrToggleConflict
}
