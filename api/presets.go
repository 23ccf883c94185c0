package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"txtransform/preset"
)

func (h *handler) getPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListPresets())
}

// addPreset always answers 204 once the body is valid; a failed write to
// disk is only logged.
func (h *handler) addPreset(w http.ResponseWriter, r *http.Request) {
	var p preset.Preset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || strings.TrimSpace(p.Name) == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.svc.AddPreset(p)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) putPresets(w http.ResponseWriter, r *http.Request) {
	var list []preset.Preset
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	for _, p := range list {
		if strings.TrimSpace(p.Name) == "" {
			http.Error(w, "preset name is required", http.StatusBadRequest)
			return
		}
	}

	updated, err := h.svc.ReplacePresets(list)
	if err != nil {
		h.log.Error().Err(err).Msg("replace presets")
		http.Error(w, "failed to save presets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deletePreset(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		http.Error(w, "invalid preset name", http.StatusBadRequest)
		return
	}
	h.svc.DeletePreset(name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listTransformers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TransformerNames())
}

// pathParam returns the decoded URL parameter key. chi matches on
// r.URL.RawPath when it is set (e.g. for "a%2Fb"), and the parameter is then
// still escaped; otherwise it was already decoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
