package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

type Health struct {
	version string
}

func NewHealth(version string) *Health {
	return &Health{version: version}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   h.version,
	})
}
