// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lectern/internal/logging"
	"github.com/tomtom215/lectern/internal/metrics"
	"github.com/tomtom215/lectern/internal/recommend"
	"github.com/tomtom215/lectern/internal/validation"
)

// maxBodyBytes caps POST bodies; a request only carries a user ID.
const maxBodyBytes = 4 << 10

// RecoResponse is the flat recommendation payload. Category and article
// lists are JSON-encoded arrays carried as strings; timestamps are Unix
// epoch seconds.
type RecoResponse struct {
	UserID   string  `json:"user_id"`
	RecoCats string  `json:"reco_cats"`
	RecoArts string  `json:"reco_arts"`
	TStart   float64 `json:"t_start"`
	TLoad    float64 `json:"t_load"`
	TPred    float64 `json:"t_pred"`
}

// emptyReco is returned when no user ID is supplied.
func emptyReco() RecoResponse {
	return RecoResponse{UserID: "", RecoCats: "[]", RecoArts: "[]"}
}

// recommendationRequest is the validated form of a recommendation call.
type recommendationRequest struct {
	UserID string `json:"user_id" validate:"required,userid"`
}

// flexibleID accepts a JSON string or number.
type flexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// GetReco handles GET /get_reco?user_id=N
func (h *Handler) GetReco(w http.ResponseWriter, r *http.Request) {
	h.serveReco(w, r, r.URL.Query().Get("user_id"))
}

// GetRecommendations handles GET /api/v1/recommendations?user_id=N
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serveReco(w, r, r.URL.Query().Get("user_id"))
}

// PostRecommendations handles POST /api/v1/recommendations with a JSON body
// {"user_id": "N"}. An empty body is treated as a missing user ID.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID flexibleID `json:"user_id"`
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequestBody, "Request body must be a JSON object with a user_id", nil, err)
		return
	}

	h.serveReco(w, r, string(body.UserID))
}

// parseUserID validates a trimmed user ID. A blank ID is
// recommend.ErrMissingInput; an invalid one is an *APIError.
func parseUserID(rawID string) (int, error) {
	if rawID == "" {
		return 0, recommend.ErrMissingInput
	}
	if apiErr := validateRequest(&recommendationRequest{UserID: rawID}); apiErr != nil {
		return 0, apiErr
	}
	id, err := validation.ParseUserID(rawID)
	if err != nil {
		return 0, &APIError{Code: CodeValidationFailed, Message: err.Error()}
	}
	return id, nil
}

// serveReco validates rawID, runs the engine and writes the flat payload.
func (h *Handler) serveReco(w http.ResponseWriter, r *http.Request, rawID string) {
	rawID = strings.TrimSpace(rawID)
	userID, err := parseUserID(rawID)
	if errors.Is(err, recommend.ErrMissingInput) {
		writeJSON(w, http.StatusOK, emptyReco())
		return
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:    userID,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	recordOutcome(h.engine.Strategy(), resp, err)
	if err != nil {
		status, code, message := errorStatus(err)
		respondError(w, r, status, code, message, nil, err)
		return
	}

	payload, err := newRecoResponse(rawID, resp)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeRecommendationError, "Failed to encode recommendations", nil, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// recordOutcome feeds the recommendation metrics from one engine call.
// Fallbacks and skipped slots come from the trace; stage durations from
// the response timestamps.
func recordOutcome(strategy string, resp *recommend.Response, err error) {
	if err != nil {
		_, code, _ := errorStatus(err)
		metrics.RecordRecommendationError(strategy, strings.ToLower(code))
		return
	}
	if resp.Strategy != "" {
		strategy = resp.Strategy
	}
	metrics.RecordRecommendation(
		strategy,
		string(resp.Trace.Path),
		epochDelta(resp.StartedAt, resp.LoadedAt),
		epochDelta(resp.LoadedAt, resp.PredictedAt),
		len(resp.Items),
		resp.Trace.SkippedSlots,
	)
}

// epochDelta converts the gap between two epoch-second timestamps.
func epochDelta(from, to float64) time.Duration {
	if to <= from {
		return 0
	}
	return time.Duration((to - from) * float64(time.Second))
}

// newRecoResponse flattens an engine response. rawID is echoed as received.
func newRecoResponse(rawID string, resp *recommend.Response) (RecoResponse, error) {
	cats, err := encodeIDs(resp.Categories)
	if err != nil {
		return RecoResponse{}, err
	}
	arts, err := encodeIDs(resp.Items)
	if err != nil {
		return RecoResponse{}, err
	}
	return RecoResponse{
		UserID:   rawID,
		RecoCats: cats,
		RecoArts: arts,
		TStart:   resp.StartedAt,
		TLoad:    resp.LoadedAt,
		TPred:    resp.PredictedAt,
	}, nil
}

// encodeIDs renders ids as a JSON array string; nil renders as "[]".
func encodeIDs(ids []int) (string, error) {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
