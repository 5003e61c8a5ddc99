package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/telemetry/logging"
)

const (
	// maxRequestBody caps evaluate request bodies.
	maxRequestBody = 4 << 20 // 4MB

	// defaultAuditLimit is the page size when ?limit is absent.
	defaultAuditLimit = 50

	// maxAuditLimit caps one audit listing.
	maxAuditLimit = 1000
)

// handleEvaluate implements POST /v1/evaluate.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "could not read request body")
		return
	}

	var req evaluateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return
	}
	if req.PackID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "pack_id is required")
		return
	}
	if req.Transcript == "" && len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "either transcript or messages is required")
		return
	}

	conv, err := req.conversationFrom()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_conversation", err.Error())
		return
	}

	result, err := s.engine.Evaluate(r.Context(), conv, req.PackID)
	if err != nil {
		s.writeEvaluateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeEvaluateError maps engine errors onto HTTP status codes. Caller
// errors keep their message; anything else is an opaque 500.
func (s *Server) writeEvaluateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case compliance.IsInvalidConversation(err):
		writeError(w, http.StatusBadRequest, "invalid_conversation", err.Error())
	case compliance.IsPackNotFound(err):
		writeError(w, http.StatusNotFound, "pack_not_found", err.Error())
	default:
		logging.FromContext(r.Context(), s.logger).Error("evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "evaluation failed")
	}
}

// handleListPacks implements GET /v1/packs.
func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"packs": s.engine.Registry().List(),
	})
}

// handleListAudits implements GET /v1/audits.
func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusNotFound, "audits_disabled", "audit storage is not configured")
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	records, err := s.storage.Recent(r.Context(), limit)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Error("audit listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not list audit records")
		return
	}
	if records == nil {
		records = []*audit.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"audits": records})
}

// handleGetAudit implements GET /v1/audits/{id}. The record is returned
// together with its integrity verification outcome, so tampering shows up
// on retrieval, not only in offline review.
func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusNotFound, "audits_disabled", "audit storage is not configured")
		return
	}

	id := r.PathValue("id")
	record, err := s.storage.GetByID(r.Context(), id)
	if err != nil {
		var notFound *audit.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, "audit_not_found", err.Error())
			return
		}
		logging.FromContext(r.Context(), s.logger).Error("audit lookup failed", "error", err, "audit_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load audit record")
		return
	}

	response := auditRecordResponse{Record: record, Verified: true}
	if err := audit.Verify(record); err != nil {
		response.Verified = false
		response.Problem = err.Error()
		logging.FromContext(r.Context(), s.logger).Warn("stored audit record failed verification",
			"audit_id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}
