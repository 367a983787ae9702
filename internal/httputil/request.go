package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lessonview/internal/config"
)

// maxBodyBytes leaves room for JSON escaping around a full-size buffer
const maxBodyBytes = 2*config.MaxContentBytes + 4<<10

// ParseJSON decodes JSON from the request body into dest.
// Unknown fields are rejected; the body size is capped.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
