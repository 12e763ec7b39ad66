package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quaint/analyzer/backend"
	"github.com/rs/zerolog/log"
)

const (
	detailNotConfigured  = "ML API not configured"
	detailInvalidKey     = "Invalid ML API key"
	detailUnavailable    = "ML API unavailable"
	detailInternalFailed = "Internal server error"
)

type HealthResponse struct {
	Status      string              `json:"status"`
	Timestamp   string              `json:"timestamp"`
	Version     string              `json:"version"`
	MLAPIStatus backend.ProbeStatus `json:"ml_api_status,omitempty"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (rtr *Routing) configHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rtr.writeJSON(w, http.StatusOK, rtr.FrontendConfig())
	}
}

// healthHandler Always 200. Probe failures only change `ml_api_status`.
func (rtr *Routing) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "healthy",
			Timestamp: rtr.Now().Format(time.RFC3339Nano),
			Version:   Version,
		}

		if rtr.Proxying {
			resp.MLAPIStatus = backend.NotConfigured
			if rtr.Backend != nil {
				resp.MLAPIStatus = rtr.Backend.Probe(r.Context())
			}
		}

		rtr.writeJSON(w, http.StatusOK, resp)
	}
}

func (rtr *Routing) proxyHandler(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rtr.Backend == nil {
			rtr.writeDetail(w, http.StatusServiceUnavailable, detailNotConfigured)
			return
		}

		query, err := res.UpstreamQuery(r.URL.Query())
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				rtr.writeDetail(w, http.StatusUnprocessableEntity, ve.Error())
				return
			}
			rtr.writeError(w, err)
			return
		}

		rtr.writeResult(w, res, rtr.Backend.Fetch(r.Context(), res.UpstreamPath, query))
	}
}

// writeResult The one place upstream outcomes become HTTP responses
func (rtr *Routing) writeResult(w http.ResponseWriter, res Resource, result backend.Result) {
	switch result.Outcome {
	case backend.Success:
		w.Header().Set("Content-Type", applicationJSON)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Body)
	case backend.AuthFailed:
		rtr.writeDetail(w, http.StatusUnauthorized, detailInvalidKey)
	case backend.UpstreamError:
		rtr.writeDetail(w, result.Status, result.Detail)
	default:
		log.Error().Err(result.Err).Str("resource", res.Name).Msgf("Failed to fetch %s", res.Name)
		rtr.writeDetail(w, http.StatusServiceUnavailable, detailUnavailable)
	}
}

func (rtr *Routing) writeJSON(w http.ResponseWriter, status int, val any) {
	bytes, err := json.Marshal(val)
	if err != nil {
		rtr.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", applicationJSON)
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

func (rtr *Routing) writeDetail(w http.ResponseWriter, status int, detail string) {
	rtr.writeJSON(w, status, ErrorResponse{Detail: detail})
}

func (rtr *Routing) writeError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Stack().Msg("Response error")

	w.Header().Set("Content-Type", applicationJSON)
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detailInternalFailed})
}
