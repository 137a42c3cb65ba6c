package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/djahern-max/campusconnect-backend/internal/openapi"
)

var (
	specOnce sync.Once
	specJSON []byte
	specErr  error
)

// handleOpenAPI serves the API document. The document is static, so it is
// built and marshaled once.
// GET /openapi.json
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	specOnce.Do(func() {
		doc := openapi.Spec("/", "1.0.0")
		specJSON, specErr = json.Marshal(doc)
	})
	if specErr != nil {
		http.Error(w, `{"error":{"message":"failed to build API document"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(specJSON)
}
