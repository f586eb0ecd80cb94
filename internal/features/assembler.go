package features

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/career-recommender/internal/vocab"
)

// Vector is the full classifier input:
// Encode(interests) ++ Encode(subjects) ++ skills in SkillNames order.
type Vector []float64

// Layout fixes the column order of a Vector. Training and inference must
// assemble through the same Layout.
type Layout struct {
	interests *vocab.LabelSet
	subjects  *vocab.LabelSet
}

func NewLayout(interests, subjects *vocab.LabelSet) (*Layout, error) {
	if interests == nil || subjects == nil {
		return nil, errors.New("interest and subject vocabularies are required")
	}
	return &Layout{interests: interests, subjects: subjects}, nil
}

// DefaultLayout uses the built-in vocabularies.
func DefaultLayout() *Layout {
	return &Layout{interests: vocab.DefaultInterests(), subjects: vocab.DefaultSubjects()}
}

func (l *Layout) Interests() *vocab.LabelSet { return l.interests }

func (l *Layout) Subjects() *vocab.LabelSet { return l.subjects }

// Width is |interests| + |subjects| + len(SkillNames), whatever is selected.
func (l *Layout) Width() int {
	return l.interests.Len() + l.subjects.Len() + len(SkillNames)
}

// Assemble builds the feature vector. Errors from both selections are joined
// so the caller sees every unknown token at once.
func (l *Layout) Assemble(interests, subjects []string, skills Skills) (Vector, error) {
	encInterests, errInterests := Encode(interests, l.interests)
	encSubjects, errSubjects := Encode(subjects, l.subjects)
	if err := errors.Join(errInterests, errSubjects); err != nil {
		return nil, err
	}

	out := make(Vector, 0, l.Width())
	out = append(out, encInterests...)
	out = append(out, encSubjects...)
	for _, v := range skills.Values() {
		out = append(out, float64(v))
	}

	return out, nil
}

// Columns names every position of a Vector, e.g. "interests:coding".
func (l *Layout) Columns() []string {
	cols := make([]string, 0, l.Width())
	for _, t := range l.interests.Tokens() {
		cols = append(cols, l.interests.Name()+":"+t)
	}
	for _, t := range l.subjects.Tokens() {
		cols = append(cols, l.subjects.Name()+":"+t)
	}
	for _, name := range SkillNames {
		cols = append(cols, "skill:"+strings.ToLower(name))
	}
	return cols
}

// Signature identifies the column order. Two layouts with the same signature
// produce interchangeable vectors.
func (l *Layout) Signature() string {
	hash := sha256.Sum256([]byte(strings.Join(l.Columns(), "\n")))
	return hex.EncodeToString(hash[:])
}

func (l *Layout) String() string {
	return fmt.Sprintf("%d interests + %d subjects + %d skills", l.interests.Len(), l.subjects.Len(), len(SkillNames))
}
