// Package recommend predicts a career field for a user and scores the user's
// skills against every career profile.
//
// A Service is built once from a loaded artifact and never mutated, so it is
// safe for concurrent use.
package recommend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/artifact"
	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/logger"
	"github.com/spigell/career-recommender/internal/match"
	"github.com/spigell/career-recommender/internal/metrics"
	"github.com/spigell/career-recommender/internal/profiles"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/validation"
	"github.com/spigell/career-recommender/internal/vocab"
)

// ErrInvalidRequest is returned when the request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// Request is a user's selections and self-rated skills.
type Request struct {
	Interests []string        `json:"interests"`
	Subjects  []string        `json:"subjects"`
	Skills    features.Skills `json:"skills" validate:"required"`
}

// Response is the predicted career field with the skill comparison.
type Response struct {
	Label string `json:"label"`
	// Ideal holds the skills of the predicted career profile.
	Ideal   features.Skills `json:"ideal"`
	Matches []match.Result  `json:"matches"`
	// BestMatch is the profile closest to the user's skills. It may differ from Label.
	BestMatch match.Result    `json:"best_match"`
	Skills    features.Skills `json:"skills"`
	Interests []string        `json:"interests"`
	Subjects  []string        `json:"subjects"`
	ModelID   string          `json:"model_id"`
}

// Vocabulary lists the tokens and skill names the loaded model accepts.
type Vocabulary struct {
	Interests []string `json:"interests"`
	Subjects  []string `json:"subjects"`
	Skills    []string `json:"skills"`
}

type Service struct {
	meta   artifact.Metadata
	layout *features.Layout
	model  *tree.Model
	repo   *profiles.Repository
	logger *zap.Logger
}

// New builds a Service. A nil repo means the built-in profiles.
func New(art *artifact.Artifact, repo *profiles.Repository, log *zap.Logger) (*Service, error) {
	if art == nil || art.Model == nil {
		return nil, errors.New("a trained artifact is required")
	}
	if repo == nil {
		repo = profiles.Default()
	}

	layout, err := art.Layout()
	if err != nil {
		return nil, fmt.Errorf("artifact layout: %w", err)
	}

	log = logger.WithModelFields(log, art.Metadata.ID, art.Metadata.Signature)
	if missing := repo.Missing(art.Model.Classes); len(missing) > 0 {
		log.Warn("model labels without career profile", zap.Strings("labels", missing))
	}

	return &Service{
		meta:   art.Metadata,
		layout: layout,
		model:  art.Model,
		repo:   repo,
		logger: log,
	}, nil
}

// Recommend validates the request, predicts a career label and scores every profile.
func (s *Service) Recommend(req Request) (*Response, error) {
	started := time.Now()
	resp, err := s.recommend(req)
	label := ""
	if resp != nil {
		label = resp.Label
	}
	metrics.RecordRecommendation(Outcome(err), label, time.Since(started))
	return resp, err
}

func (s *Service) recommend(req Request) (*Response, error) {
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	interests := clean(req.Interests)
	subjects := clean(req.Subjects)

	v, err := s.layout.Assemble(interests, subjects, req.Skills)
	if err != nil {
		return nil, err
	}

	label, err := s.model.Predict(v)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	ideal, err := s.repo.Lookup(label)
	if err != nil {
		return nil, fmt.Errorf("predicted label: %w", err)
	}

	matches := match.ScoreAll(req.Skills, s.repo)
	best, _ := match.Best(matches)

	s.logger.Debug("recommendation",
		zap.String("label", label),
		zap.Stringer("skills", req.Skills),
		zap.String("best_match", best.Label),
	)

	width := s.layout.Interests().Len()
	return &Response{
		Label:     label,
		Ideal:     ideal.Skills,
		Matches:   matches,
		BestMatch: best,
		Skills:    req.Skills,
		Interests: features.Decode(features.Encoded(v[:width]), s.layout.Interests()),
		Subjects:  features.Decode(features.Encoded(v[width:width+s.layout.Subjects().Len()]), s.layout.Subjects()),
		ModelID:   s.meta.ID,
	}, nil
}

func (s *Service) Profiles() []profiles.Profile { return s.repo.All() }

func (s *Service) Vocabulary() Vocabulary {
	return Vocabulary{
		Interests: s.layout.Interests().Tokens(),
		Subjects:  s.layout.Subjects().Tokens(),
		Skills:    append([]string(nil), features.SkillNames...),
	}
}

func (s *Service) Metadata() artifact.Metadata { return s.meta }

// Outcome classifies an error returned by Recommend for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidRequest):
		return metrics.OutcomeInvalid
	case errors.Is(err, vocab.ErrUnknownLabel):
		return metrics.OutcomeUnknownLabel
	case errors.Is(err, profiles.ErrUnknownCareerLabel):
		return metrics.OutcomeUnknownCareer
	case errors.Is(err, tree.ErrDimensionMismatch):
		return metrics.OutcomeModelMismatch
	default:
		return metrics.OutcomeInternalError
	}
}

// clean drops blank entries. Normalization happens in the encoder.
func clean(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
