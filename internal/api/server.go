package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/dferreira/quizmaster/internal/services"
)

type Server struct {
	QuizService  services.QuizService
	StatsService services.StatsService
	UserService  services.UserService
	DB           *sql.DB
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst, limiting its size.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}
