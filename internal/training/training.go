// Package training turns a labeled sample source into a persisted model artifact.
//
// The pipeline runs named stages in order (load, encode, split, fit, evaluate,
// save). Each stage reports how many rows it received, dropped and passed on,
// and Run logs that as one structured entry per stage.
package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/artifact"
	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/logger"
	"github.com/spigell/career-recommender/internal/metrics"
	"github.com/spigell/career-recommender/internal/profiles"
	"github.com/spigell/career-recommender/internal/samples"
	"github.com/spigell/career-recommender/internal/tree"
)

// Stage names in execution order.
const (
	StageLoad     = "load"
	StageEncode   = "encode"
	StageSplit    = "split"
	StageFit      = "fit"
	StageEvaluate = "evaluate"
	StageSave     = "save"
)

// Config controls a training run.
type Config struct {
	DataPath  string
	ModelPath string
	Strict    bool
	// Layout defaults to the built-in vocabularies.
	Layout *features.Layout
	Params tree.Params
	// TestSize is the held-out share of rows. Zero holds out nothing.
	TestSize float64
	Seed     uint64
	// Profiles, when set, is checked for every trained label.
	Profiles *profiles.Repository
}

// DefaultConfig returns the settings of the stock training run for dataPath.
func DefaultConfig(dataPath string) Config {
	return Config{
		DataPath:  dataPath,
		ModelPath: artifact.DefaultPath,
		Layout:    features.DefaultLayout(),
		Params:    tree.DefaultParams(),
		TestSize:  tree.DefaultTestSize,
		Seed:      tree.DefaultSeed,
	}
}

// Step describes the result of executing a stage.
type Step struct {
	Initial int `json:"initial"`
	Dropped int `json:"dropped"`
	Left    int `json:"left"`
}

// StageReport is the logged outcome of one stage.
type StageReport struct {
	Name string `json:"name"`
	Step
}

// Report summarizes a finished run.
type Report struct {
	ModelPath       string              `json:"model_path"`
	Metadata        artifact.Metadata   `json:"metadata"`
	Stages          []StageReport       `json:"stages"`
	Skipped         []*samples.RowError `json:"-"`
	MissingProfiles []string            `json:"missing_profiles,omitempty"`
	Duration        time.Duration       `json:"duration"`
}

type stage struct {
	name string
	run  func(ctx context.Context, s *state) (Step, error)
}

// state is the data handed from one stage to the next.
type state struct {
	cfg    Config
	logger *zap.Logger

	samples []samples.Sample
	skipped []*samples.RowError
	x       [][]float64
	y       []string
	train   []int
	test    []int
	model   *tree.Model
	acc     float64
	art     *artifact.Artifact
}

func pipeline() []stage {
	return []stage{
		{name: StageLoad, run: load},
		{name: StageEncode, run: encode},
		{name: StageSplit, run: split},
		{name: StageFit, run: fit},
		{name: StageEvaluate, run: evaluate},
		{name: StageSave, run: save},
	}
}

// Stages returns the stage names in execution order.
func Stages() []string {
	p := pipeline()
	out := make([]string, len(p))
	for i, st := range p {
		out[i] = st.name
	}
	return out
}

// Run executes every stage sequentially and returns the report of the saved artifact.
func Run(ctx context.Context, cfg Config, log *zap.Logger) (*Report, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	started := time.Now()
	s := &state{cfg: cfg, logger: logger.OrNop(log)}
	report := &Report{ModelPath: cfg.ModelPath}

	for _, st := range pipeline() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}

		info, err := st.run(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}

		s.logger.Info("training stage",
			zap.String("name", st.name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		report.Stages = append(report.Stages, StageReport{Name: st.name, Step: info})
	}

	metrics.RecordSkippedRows(len(s.skipped))

	if cfg.Profiles != nil {
		report.MissingProfiles = cfg.Profiles.Missing(s.model.Classes)
		if len(report.MissingProfiles) > 0 {
			s.logger.Warn("trained labels have no career profile, predictions of them cannot be scored",
				zap.Strings("labels", report.MissingProfiles),
			)
		}
	}

	report.Metadata = s.art.Metadata
	report.Skipped = s.skipped
	report.Duration = time.Since(started)

	logger.WithModelFields(s.logger, s.art.Metadata.ID, s.art.Metadata.Signature).Info("model trained",
		zap.String("path", cfg.ModelPath),
		zap.Int("train_samples", s.art.Metadata.TrainSamples),
		zap.Int("test_samples", s.art.Metadata.TestSamples),
		zap.Float64("accuracy", s.art.Metadata.Accuracy),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

func (c *Config) normalize() error {
	if c.DataPath == "" {
		return errors.New("training data path is required")
	}
	if c.ModelPath == "" {
		c.ModelPath = artifact.DefaultPath
	}
	if c.Layout == nil {
		c.Layout = features.DefaultLayout()
	}
	return nil
}
