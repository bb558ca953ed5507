package httputil

import (
	"encoding/json"
	"net/http"
)

// ReadJSON decodes a request body into dst and closes the body. Unknown
// fields are rejected.
func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// WriteImage sends raw encoded image bytes with the given content type.
// Frames are immutable for a given video, so clients may cache them.
func WriteImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
