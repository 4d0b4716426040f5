package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"internHubAPI/internal/apperr"
)

// handlerTimeout bounds every request's work against stores and providers.
const handlerTimeout = 5 * time.Second

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithAppError writes {error, kind} with the status mapped from the
// error kind. Errors without a kind are logged and reported as internal.
func respondWithAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Request failed")
	}
	respondWithJSON(w, status, map[string]string{
		"error": apperr.MessageOf(err),
		"kind":  string(kind),
	})
}

func respondUnauthenticated(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "User not authenticated",
		"kind":  string(apperr.KindAuthentication),
	})
}
