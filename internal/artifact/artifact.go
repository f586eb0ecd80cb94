// Package artifact persists a trained classifier together with the exact
// vocabularies and column order it was trained on.
//
// # Storage format
//
// The file holds a gob-encoded envelope with the metadata, a SHA-256
// checksum and the gzip-compressed gob payload. Load verifies the checksum,
// the format version and that the stored vocabularies still produce the
// stored signature and tree width.
package artifact

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/vocab"
)

// FormatVersion is bumped whenever the payload layout changes.
const FormatVersion = 1

// ErrLoadFailure is matched by every error returned from Load and by vocabulary drift.
var ErrLoadFailure = errors.New("artifact load failure")

// Metadata describes a training run.
type Metadata struct {
	ID            string      `json:"id"`
	FormatVersion int         `json:"format_version"`
	TrainedAt     time.Time   `json:"trained_at"`
	Signature     string      `json:"signature"`
	TrainSamples  int         `json:"train_samples"`
	TestSamples   int         `json:"test_samples"`
	SkippedRows   int         `json:"skipped_rows"`
	Accuracy      float64     `json:"accuracy"`
	Seed          uint64      `json:"seed"`
	TestSize      float64     `json:"test_size"`
	Params        tree.Params `json:"params"`
	Classes       []string    `json:"classes"`
	Depth         int         `json:"depth"`
	Leaves        int         `json:"leaves"`
}

// Artifact is the unit persisted after training and loaded for inference.
type Artifact struct {
	Metadata  Metadata
	Interests []string
	Subjects  []string
	Skills    []string
	Model     *tree.Model
}

// New binds a trained model to the layout it was trained with. Identity,
// signature and tree shape fields of meta are filled in.
func New(layout *features.Layout, model *tree.Model, meta Metadata) (*Artifact, error) {
	if layout == nil || model == nil {
		return nil, errors.New("layout and model are required")
	}
	if model.Width != layout.Width() {
		return nil, &tree.DimensionError{Expected: layout.Width(), Actual: model.Width}
	}

	meta.ID = uuid.NewString()
	meta.FormatVersion = FormatVersion
	meta.Signature = layout.Signature()
	meta.Classes = slices.Clone(model.Classes)
	meta.Depth = model.Depth()
	meta.Leaves = model.Leaves()
	if meta.TrainedAt.IsZero() {
		meta.TrainedAt = time.Now().UTC()
	}

	return &Artifact{
		Metadata:  meta,
		Interests: layout.Interests().Tokens(),
		Subjects:  layout.Subjects().Tokens(),
		Skills:    slices.Clone(features.SkillNames),
		Model:     model,
	}, nil
}

// Layout rebuilds the feature layout the model was trained with.
func (a *Artifact) Layout() (*features.Layout, error) {
	interests, err := vocab.New(vocab.InterestsName, a.Interests...)
	if err != nil {
		return nil, err
	}
	subjects, err := vocab.New(vocab.SubjectsName, a.Subjects...)
	if err != nil {
		return nil, err
	}
	return features.NewLayout(interests, subjects)
}

// Validate checks the artifact is internally consistent and usable by this build.
func (a *Artifact) Validate() error {
	if a.Metadata.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format version %d, expected %d", a.Metadata.FormatVersion, FormatVersion)
	}
	if a.Model == nil {
		return errors.New("artifact has no model")
	}
	if !slices.Equal(a.Skills, features.SkillNames) {
		return fmt.Errorf("skill order %v does not match %v", a.Skills, features.SkillNames)
	}

	layout, err := a.Layout()
	if err != nil {
		return fmt.Errorf("stored vocabulary: %w", err)
	}
	if got := layout.Signature(); got != a.Metadata.Signature {
		return fmt.Errorf("layout signature %s does not match stored %s", got, a.Metadata.Signature)
	}
	if a.Model.Width != layout.Width() {
		return &tree.DimensionError{Expected: layout.Width(), Actual: a.Model.Width}
	}
	if err := a.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// CheckVocabulary reports drift between the stored vocabularies and the
// ones configured for this process. Nil sets are not checked.
func (a *Artifact) CheckVocabulary(interests, subjects *vocab.LabelSet) error {
	layout, err := a.Layout()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if interests != nil && !layout.Interests().Equal(interests) {
		return fmt.Errorf("%w: configured interests vocabulary differs from the one the model was trained with", ErrLoadFailure)
	}
	if subjects != nil && !layout.Subjects().Equal(subjects) {
		return fmt.Errorf("%w: configured subjects vocabulary differs from the one the model was trained with", ErrLoadFailure)
	}
	return nil
}
