package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/plan"
	"github.com/sandevgo/briefbot/internal/service/chat"
	"github.com/sandevgo/briefbot/pkg/log"
)

const apologyReply = "I'm sorry, something went wrong on our side. Please try again."

type handlers struct {
	planner   Planner
	converser Converser
}

type generateRequest struct {
	Mode            string             `json:"mode"`
	SubjectName     string             `json:"subjectName"`
	SubjectCategory string             `json:"subjectCategory"`
	SubjectContext  map[string]any     `json:"subjectContext"`
	GuidedInputs    *plan.GuidedInputs `json:"guidedInputs"`
}

type generateResponse struct {
	Success     bool           `json:"success"`
	Artifact    map[string]any `json:"artifact"`
	Mode        string         `json:"mode"`
	SubjectName string         `json:"subjectName"`
	Timestamp   string         `json:"timestamp"`
	Error       string         `json:"error,omitempty"`
}

type converseRequest struct {
	Message        string         `json:"message"`
	SubjectContext map[string]any `json:"subjectContext"`
	IsInitialized  bool           `json:"isInitialized"`
	History        []core.Message `json:"history"`
}

type converseResponse struct {
	Reply   string `json:"reply"`
	Success bool   `json:"success"`
}

// generateArtifact answers 200 with a complete artifact no matter what the
// pipeline did; 400 is reserved for requests we cannot even interpret.
func (h *handlers) generateArtifact(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	if !plan.ValidMode(req.Mode) {
		writeBadRequest(w, `mode must be "auto" or "guided"`)
		return
	}
	if req.Mode == plan.ModeGuided && req.GuidedInputs == nil {
		writeBadRequest(w, "guided mode requires guidedInputs")
		return
	}

	result := h.planner.Generate(r.Context(), plan.Request{
		Mode:            req.Mode,
		SubjectName:     req.SubjectName,
		SubjectCategory: req.SubjectCategory,
		SubjectContext:  req.SubjectContext,
		Guided:          req.GuidedInputs,
	})

	resp := generateResponse{
		Success:     !result.Fallback,
		Artifact:    result.Artifact,
		Mode:        result.Mode,
		SubjectName: result.SubjectName,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if result.Fallback {
		resp.Error = result.Cause
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) converse(w http.ResponseWriter, r *http.Request) {
	var req converseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	reply, err := h.converser.Converse(r.Context(), chat.Request{
		Message:        req.Message,
		SubjectContext: req.SubjectContext,
		Initialized:    req.IsInitialized,
		History:        req.History,
	})
	if errors.Is(err, chat.ErrEmptyMessage) {
		writeBadRequest(w, "message must not be empty")
		return
	}
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("converse turn failed")
		writeJSON(w, http.StatusInternalServerError, converseResponse{Reply: apologyReply})
		return
	}

	writeJSON(w, http.StatusOK, converseResponse{Reply: reply, Success: true})
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": core.BriefVersion,
	})
}
