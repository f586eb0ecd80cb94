// Package vocab holds the ordered token vocabularies that define the
// positions of the categorical part of a feature vector.
package vocab

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownLabel is matched by every error caused by a token outside a vocabulary.
var ErrUnknownLabel = errors.New("unknown label")

// UnknownLabelError lists the tokens a selection referenced but the vocabulary does not contain.
type UnknownLabelError struct {
	Vocabulary string
	Tokens     []string
}

func (e *UnknownLabelError) Error() string {
	name := e.Vocabulary
	if name == "" {
		name = "vocabulary"
	}
	return fmt.Sprintf("%s: %s: %s", ErrUnknownLabel, name, strings.Join(e.Tokens, ", "))
}

func (e *UnknownLabelError) Is(target error) bool { return target == ErrUnknownLabel }

// LabelSet is an ordered, de-duplicated and immutable list of tokens.
type LabelSet struct {
	name   string
	tokens []string
	index  map[string]int
}

// New builds a named LabelSet. Tokens are normalized; empty or duplicate tokens are rejected.
func New(name string, tokens ...string) (*LabelSet, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%s vocabulary must not be empty", name)
	}

	set := &LabelSet{
		name:   name,
		tokens: make([]string, 0, len(tokens)),
		index:  make(map[string]int, len(tokens)),
	}

	for _, raw := range tokens {
		token := Normalize(raw)
		if token == "" {
			return nil, fmt.Errorf("%s vocabulary contains an empty token", name)
		}
		if _, ok := set.index[token]; ok {
			return nil, fmt.Errorf("%s vocabulary contains duplicate token %q", name, token)
		}
		set.index[token] = len(set.tokens)
		set.tokens = append(set.tokens, token)
	}

	return set, nil
}

// Must is like New but panics on error. Used for the built-in vocabularies.
func Must(name string, tokens ...string) *LabelSet {
	set, err := New(name, tokens...)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *LabelSet) Name() string { return s.name }

func (s *LabelSet) Len() int { return len(s.tokens) }

// Tokens returns a copy of the tokens in canonical order.
func (s *LabelSet) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// IndexOf returns the canonical position of token.
func (s *LabelSet) IndexOf(token string) (int, error) {
	normalized := Normalize(token)
	idx, ok := s.index[normalized]
	if !ok {
		return -1, &UnknownLabelError{Vocabulary: s.name, Tokens: []string{normalized}}
	}
	return idx, nil
}

func (s *LabelSet) Contains(token string) bool {
	_, ok := s.index[Normalize(token)]
	return ok
}

// Equal reports whether both sets hold the same tokens in the same order.
func (s *LabelSet) Equal(other *LabelSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.tokens) != len(other.tokens) {
		return false
	}
	for i := range s.tokens {
		if s.tokens[i] != other.tokens[i] {
			return false
		}
	}
	return true
}

// Normalize applies NFKC, trims surrounding whitespace and lower-cases the token.
func Normalize(token string) string {
	token = strings.TrimSpace(norm.NFKC.String(token))
	return cases.Lower(language.Und).String(token)
}

// Split breaks a delimited token string into normalized tokens, dropping empty pieces.
func Split(raw string, sep string) []string {
	pieces := strings.Split(raw, sep)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if token := Normalize(piece); token != "" {
			out = append(out, token)
		}
	}
	return out
}
