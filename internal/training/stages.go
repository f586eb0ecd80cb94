package training

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/artifact"
	"github.com/spigell/career-recommender/internal/samples"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/utils"
)

const previewLength = 120

var errNoSamples = errors.New("no usable samples")

func load(ctx context.Context, s *state) (Step, error) {
	res, err := samples.Load(ctx, s.cfg.DataPath, samples.Options{
		Strict: s.cfg.Strict,
		Logger: s.logger,
	})
	if err != nil {
		return Step{}, err
	}

	s.samples = res.Samples
	s.skipped = append(s.skipped, res.Skipped...)

	initial := res.Loaded() + len(res.Skipped)
	if res.Loaded() == 0 {
		return Step{}, fmt.Errorf("%w in %s (%d rows read)", errNoSamples, s.cfg.DataPath, initial)
	}
	return Step{Initial: initial, Dropped: len(res.Skipped), Left: res.Loaded()}, nil
}

// encode assembles every sample. A row that references tokens outside the
// vocabulary is malformed and follows the same skip or strict policy.
func encode(_ context.Context, s *state) (Step, error) {
	initial := len(s.samples)
	s.x = make([][]float64, 0, initial)
	s.y = make([]string, 0, initial)

	dropped := 0
	for _, sample := range s.samples {
		v, err := s.cfg.Layout.Assemble(sample.Interests, sample.Subjects, sample.Skills)
		if err == nil {
			s.x = append(s.x, v)
			s.y = append(s.y, sample.Label)
			continue
		}

		rowErr := &samples.RowError{Row: sample.Row, Reason: err.Error(), Cells: sampleCells(sample), Err: err}
		if s.cfg.Strict {
			return Step{}, rowErr
		}

		s.logger.Warn("skipping malformed row",
			zap.Int("row", rowErr.Row),
			zap.String("reason", rowErr.Reason),
			zap.String("preview", utils.PreviewRow(rowErr.Cells, previewLength)),
		)
		s.skipped = append(s.skipped, rowErr)
		dropped++
	}

	if len(s.x) == 0 {
		return Step{}, errNoSamples
	}
	s.samples = nil
	return Step{Initial: initial, Dropped: dropped, Left: len(s.x)}, nil
}

// split holds out part of the rows for evaluation. Dropped counts the held-out rows.
func split(_ context.Context, s *state) (Step, error) {
	train, test, err := tree.Split(len(s.x), s.cfg.TestSize, s.cfg.Seed)
	if err != nil {
		return Step{}, err
	}
	s.train, s.test = train, test
	return Step{Initial: len(s.x), Dropped: len(test), Left: len(train)}, nil
}

func fit(_ context.Context, s *state) (Step, error) {
	x, y := s.rows(s.train)
	model, err := tree.Train(x, y, s.cfg.Params)
	if err != nil {
		return Step{}, err
	}
	s.model = model

	s.logger.Debug("tree grown",
		zap.Int("depth", model.Depth()),
		zap.Int("leaves", model.Leaves()),
		zap.Strings("classes", model.Classes),
	)
	return Step{Initial: len(x), Left: len(x)}, nil
}

// evaluate measures held-out accuracy. Dropped counts misclassified rows.
func evaluate(_ context.Context, s *state) (Step, error) {
	if len(s.test) == 0 {
		s.logger.Warn("no rows held out, accuracy is not measured")
		return Step{}, nil
	}

	x, y := s.rows(s.test)
	acc, err := tree.Accuracy(s.model, x, y)
	if err != nil {
		return Step{}, err
	}
	s.acc = acc

	correct := int(acc*float64(len(x)) + 0.5)
	return Step{Initial: len(x), Dropped: len(x) - correct, Left: correct}, nil
}

func save(_ context.Context, s *state) (Step, error) {
	art, err := artifact.New(s.cfg.Layout, s.model, artifact.Metadata{
		TrainSamples: len(s.train),
		TestSamples:  len(s.test),
		SkippedRows:  len(s.skipped),
		Accuracy:     s.acc,
		Seed:         s.cfg.Seed,
		TestSize:     s.cfg.TestSize,
		Params:       s.model.Params,
	})
	if err != nil {
		return Step{}, err
	}
	if err := artifact.Save(s.cfg.ModelPath, art); err != nil {
		return Step{}, err
	}
	s.art = art

	n := len(s.train) + len(s.test)
	return Step{Initial: n, Left: n}, nil
}

func (s *state) rows(idx []int) ([][]float64, []string) {
	x := make([][]float64, len(idx))
	y := make([]string, len(idx))
	for i, j := range idx {
		x[i], y[i] = s.x[j], s.y[j]
	}
	return x, y
}

func sampleCells(sample samples.Sample) []string {
	skills := sample.Skills.Values()
	cells := []string{
		fmt.Sprint(sample.Interests),
		fmt.Sprint(sample.Subjects),
	}
	for _, v := range skills {
		cells = append(cells, fmt.Sprint(v))
	}
	return append(cells, sample.Label)
}
