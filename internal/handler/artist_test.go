package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemusic/internal/model"
)

func TestArtistHandler_Create(t *testing.T) {
	artists := &mockArtistCatalog{}
	h := NewArtistHandler(artists)

	rec := serve(t, http.MethodPost, "/artists", "/artists", `{"name":"  Radiohead ","bio":"Oxford"}`, 1, h.Create)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, artists.created, 1)
	assert.Equal(t, "Radiohead", artists.created[0].Name)
	assert.Equal(t, "Radiohead", decode(t, rec)["name"])
}

func TestArtistHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "blank name", body: `{"name":"   "}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "duplicate", body: `{"name":"Radiohead"}`, svcErr: model.ErrArtistExists, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "store failure", body: `{"name":"Radiohead"}`, svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewArtistHandler(&mockArtistCatalog{err: tt.svcErr})

			rec := serve(t, http.MethodPost, "/artists", "/artists", tt.body, 1, h.Create)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode(t, rec)["code"])
		})
	}
}

func TestArtistHandler_Get(t *testing.T) {
	h := NewArtistHandler(&mockArtistCatalog{})

	rec := serve(t, http.MethodGet, "/artists/{slug}", "/artists/radiohead", "", 3, h.Get)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["is_liked"])

	rec = serve(t, http.MethodGet, "/artists/{slug}", "/artists/unknown", "", 0, h.Get)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
