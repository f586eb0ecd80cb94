package artifact

import (
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/vocab"
)

func trainedArtifact(t *testing.T) (*Artifact, *features.Layout) {
	t.Helper()

	layout, err := features.NewLayout(
		vocab.Must(vocab.InterestsName, "coding", "leadership"),
		vocab.Must(vocab.SubjectsName, "cs", "management"),
	)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	rows := []struct {
		interests, subjects []string
		skills              features.Skills
		label               string
	}{
		{[]string{"coding"}, []string{"cs"}, features.Skills{Communication: 5, Programming: 9, Management: 4, Creativity: 5}, "Computer Science"},
		{[]string{"leadership"}, []string{"management"}, features.Skills{Communication: 9, Programming: 4, Management: 9, Creativity: 6}, "Management Science"},
		{[]string{"coding", "leadership"}, []string{"cs"}, features.Skills{Communication: 6, Programming: 9, Management: 5, Creativity: 6}, "Data Science"},
	}

	var x [][]float64
	var y []string
	for _, r := range rows {
		v, err := layout.Assemble(r.interests, r.subjects, r.skills)
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		x = append(x, v)
		y = append(y, r.label)
	}

	model, err := tree.Train(x, y, tree.Params{})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	a, err := New(layout, model, Metadata{TrainSamples: len(x), Accuracy: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return a, layout
}

func TestNewFillsMetadata(t *testing.T) {
	t.Parallel()

	a, layout := trainedArtifact(t)
	if a.Metadata.ID == "" || a.Metadata.TrainedAt.IsZero() {
		t.Fatalf("expected id and training time, got %+v", a.Metadata)
	}
	if a.Metadata.Signature != layout.Signature() {
		t.Fatal("expected signature of the training layout")
	}
	if a.Metadata.FormatVersion != FormatVersion {
		t.Fatalf("unexpected format version %d", a.Metadata.FormatVersion)
	}
	if !reflect.DeepEqual(a.Metadata.Classes, []string{"Computer Science", "Data Science", "Management Science"}) {
		t.Fatalf("unexpected classes %v", a.Metadata.Classes)
	}
}

func TestNewRejectsWidthMismatch(t *testing.T) {
	t.Parallel()

	model, err := tree.Train([][]float64{{1}, {2}}, []string{"a", "b"}, tree.Params{})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	_, err = New(features.DefaultLayout(), model, Metadata{})
	if !errors.Is(err, tree.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	a, layout := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "models", DefaultPath)

	if err := Save(path, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Metadata.ID != a.Metadata.ID || loaded.Metadata.Signature != a.Metadata.Signature {
		t.Fatalf("metadata changed: %+v vs %+v", loaded.Metadata, a.Metadata)
	}

	restored, err := loaded.Layout()
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if restored.Signature() != layout.Signature() {
		t.Fatal("restored layout differs")
	}

	v, _ := layout.Assemble([]string{"coding"}, []string{"cs"}, features.Skills{Communication: 5, Programming: 9, Management: 4, Creativity: 5})
	want, _ := a.Model.Predict(v)
	got, err := loaded.Model.Predict(v)
	if err != nil || got != want {
		t.Fatalf("expected %q, got %q (%v)", want, got, err)
	}

	meta, err := ReadMetadata(path)
	if err != nil || meta.ID != a.Metadata.ID {
		t.Fatalf("unexpected metadata %+v (%v)", meta, err)
	}
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := trainedArtifact(t)

	good := filepath.Join(dir, "good.gob.gz")
	if err := Save(good, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	garbage := filepath.Join(dir, "garbage.gob.gz")
	if err := os.WriteFile(garbage, []byte("not an artifact"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tampered := filepath.Join(dir, "tampered.gob.gz")
	writeEnvelope(t, good, tampered, func(sf *storedFile) { sf.Checksum = "deadbeef" })

	truncated := filepath.Join(dir, "truncated.gob.gz")
	writeEnvelope(t, good, truncated, func(sf *storedFile) { sf.CompressedData = sf.CompressedData[:10] })

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.gob.gz")},
		{name: "garbage", path: garbage},
		{name: "checksum mismatch", path: tampered},
		{name: "truncated payload", path: truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(tt.path); !errors.Is(err, ErrLoadFailure) {
				t.Fatalf("expected ErrLoadFailure, got %v", err)
			}
		})
	}
}

func TestValidateDetectsDrift(t *testing.T) {
	t.Parallel()

	a, _ := trainedArtifact(t)

	reordered := *a
	reordered.Interests = []string{"leadership", "coding"}
	if err := reordered.Validate(); err == nil {
		t.Fatal("expected signature mismatch for reordered vocabulary")
	}

	reskilled := *a
	reskilled.Skills = []string{"Programming", "Communication", "Management", "Creativity"}
	if err := reskilled.Validate(); err == nil {
		t.Fatal("expected skill order mismatch")
	}

	if err := Save(filepath.Join(t.TempDir(), "bad.gob.gz"), &reordered); err == nil {
		t.Fatal("expected save to refuse an invalid artifact")
	}
}

func TestCheckVocabulary(t *testing.T) {
	t.Parallel()

	a, layout := trainedArtifact(t)

	if err := a.CheckVocabulary(layout.Interests(), layout.Subjects()); err != nil {
		t.Fatalf("unexpected drift: %v", err)
	}
	if err := a.CheckVocabulary(nil, nil); err != nil {
		t.Fatalf("nil vocabularies must not be checked: %v", err)
	}

	err := a.CheckVocabulary(vocab.DefaultInterests(), nil)
	if !errors.Is(err, ErrLoadFailure) {
		t.Fatalf("expected ErrLoadFailure, got %v", err)
	}
}

func writeEnvelope(t *testing.T, src, dst string, mutate func(*storedFile)) {
	t.Helper()

	sf, err := readEnvelope(src)
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	mutate(sf)

	f, err := os.Create(dst)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		t.Fatalf("encode: %v", err)
	}
}
