package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"txtransform/runs"
)

type transformRequest struct {
	Input  string `json:"input"`
	Preset string `json:"preset"`
}

// transform runs a preset. Pipeline failures are part of the output text,
// so any well-formed request gets a 200.
func (h *handler) transform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Transform(r.Context(), req.Input, req.Preset))
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Runs())
}

func (h *handler) cancelRun(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}
	if err := h.svc.CancelRun(id); err != nil {
		if errors.Is(err, runs.ErrNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to cancel run", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Config())
}

func (h *handler) putConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Config()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.SaveConfig(cfg); err != nil {
		h.log.Error().Err(err).Msg("save config")
		http.Error(w, "failed to save config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Config())
}
