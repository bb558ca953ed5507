package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c"}`))
	require.NoError(t, ReadJSON(r, &dst))
	assert.Equal(t, "a@b.c", dst.Email)
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.c","admin":true}`))
	assert.Error(t, ReadJSON(r, &dst))
}

func TestWriteImage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteImage(w, "image/jpeg", []byte{0xff, 0xd8, 0xff})

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, w.Body.Bytes())
}
