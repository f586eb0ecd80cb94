package server

import (
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/profiles"
	"github.com/spigell/career-recommender/internal/recommend"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/vocab"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope wraps every API response.
type envelope struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Tokens  []string `json:"tokens,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	ModelID   string    `json:"model_id"`
	TrainedAt time.Time `json:"trained_at"`
	Classes   []string  `json:"classes"`
	Accuracy  float64   `json:"accuracy"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	meta := s.svc.Metadata()
	s.respond(w, http.StatusOK, healthResponse{
		Status:    "ok",
		ModelID:   meta.ID,
		TrainedAt: meta.TrainedAt,
		Classes:   meta.Classes,
		Accuracy:  meta.Accuracy,
	})
}

func (s *Server) profiles(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.svc.Profiles())
}

func (s *Server) vocabulary(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.svc.Vocabulary())
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, &apiError{Code: "INVALID_JSON", Message: err.Error()}, nil)
		return
	}

	resp, err := s.svc.Recommend(req)
	if err != nil {
		status, apiErr := classify(err)
		s.respondError(w, r, status, apiErr, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

// classify maps service errors to an HTTP status. Client mistakes are 400,
// a model that disagrees with its own profiles or layout is 500.
func classify(err error) (int, *apiError) {
	var unknown *vocab.UnknownLabelError
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		return http.StatusBadRequest, &apiError{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.As(err, &unknown):
		return http.StatusBadRequest, &apiError{Code: "UNKNOWN_LABEL", Message: err.Error(), Tokens: unknownTokens(err)}
	case errors.Is(err, profiles.ErrUnknownCareerLabel):
		return http.StatusInternalServerError, &apiError{Code: "UNKNOWN_CAREER_LABEL", Message: err.Error()}
	case errors.Is(err, tree.ErrDimensionMismatch):
		return http.StatusInternalServerError, &apiError{Code: "DIMENSION_MISMATCH", Message: err.Error()}
	default:
		return http.StatusInternalServerError, &apiError{Code: "INTERNAL", Message: "recommendation failed"}
	}
}

// unknownTokens collects offending tokens from both vocabularies.
func unknownTokens(err error) []string {
	var out []string
	var walk func(error)
	walk = func(err error) {
		var u *vocab.UnknownLabelError
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		if errors.As(err, &u) {
			out = append(out, u.Tokens...)
		}
	}
	walk(err)
	return out
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	s.write(w, status, envelope{Status: statusSuccess, Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *apiError, cause error) {
	level := s.logger.Info
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	fields := []zap.Field{
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.String("code", apiErr.Code),
		zap.Int("status", status),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	level("request failed", fields...)

	s.write(w, status, envelope{Status: statusError, Error: apiErr})
}

func (s *Server) write(w http.ResponseWriter, status int, body envelope) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write response", zap.Error(err))
	}
}
