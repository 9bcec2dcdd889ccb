package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/pep299/autogram/internal/service"
	"github.com/pep299/autogram/internal/transport/response"
)

type Run struct {
	runService *service.Run
}

func NewRun(runService *service.Run) *Run {
	return &Run{
		runService: runService,
	}
}

type runRequest struct {
	Limit int `json:"limit"`
}

func (h *Run) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	// An empty body means a run with the configured defaults.
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Limit < 0 {
		response.WriteBadRequest(w, "Limit must not be negative")
		return
	}

	logger.Printf("Run request started limit=%d", req.Limit)

	report, err := h.runService.Execute(r.Context(), req.Limit)
	if err != nil {
		logger.Printf("Error executing run: %v", err)
		response.WriteInternalError(w, err.Error())
		return
	}

	logger.Printf("Run request completed %s", report)
	response.WriteSuccess(w, "Run completed", report)
}
