package api

import (
	stderrors "errors"
	"io"
	"net/http"

	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/intake"

	"github.com/gorilla/mux"
)

const noAudioMessage = "no audio available for this frequency"

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidIntake), "failed to read request body")
		return
	}
	if len(body) > maxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidIntake), "request body too large")
		return
	}

	signal, err := intake.Parse(body)
	if err != nil {
		s.writeStandardError(w, err)
		return
	}

	rec := s.svc.Recommend(r.Context(), r.URL.Query().Get("bookingId"), signal)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	meta, err := s.svc.Describe(r.Context(), intake.ParseHz(mux.Vars(r)["hz"]))
	if err != nil {
		s.writeStandardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.svc.FindAsset(r.Context(), intake.ParseHz(mux.Vars(r)["hz"]))
	if err != nil {
		s.writeStandardError(w, err)
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeFrequencyNotFound), noAudioMessage)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Session(r.Context(), mux.Vars(r)["bookingId"])
	if err != nil {
		s.writeStandardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeStandardError maps error codes onto HTTP statuses.
func (s *Server) writeStandardError(w http.ResponseWriter, err error) {
	var stdErr *errors.StandardError
	if !stderrors.As(err, &stdErr) {
		s.logger.Error("request failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, string(errors.ErrCodeInternal), "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case errors.ErrCodeInvalidIntake, errors.ErrCodeInvalidFrequency:
		status = http.StatusBadRequest
	case errors.ErrCodeSessionNotFound, errors.ErrCodeFrequencyNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeCatalogUnavailable, errors.ErrCodeSessionStoreFailed:
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}

	message := stdErr.Message
	if stdErr.Details != "" && status == http.StatusBadRequest {
		message += ": " + stdErr.Details
	}
	writeError(w, status, string(stdErr.Code), message)
}
