// Package features turns categorical selections and skill levels into the
// numeric vectors consumed by the classifier.
package features

import (
	"github.com/spigell/career-recommender/internal/vocab"
)

// Encoded is a 0/1 presence vector aligned to a LabelSet.
type Encoded []float64

// Encode marks position i when the i-th token of set appears in selection.
// Unknown tokens fail the whole call; no partial vector is returned.
func Encode(selection []string, set *vocab.LabelSet) (Encoded, error) {
	out := make(Encoded, set.Len())

	var unknown []string
	seen := make(map[string]struct{}, len(selection))
	for _, raw := range selection {
		token := vocab.Normalize(raw)
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		idx, err := set.IndexOf(token)
		if err != nil {
			unknown = append(unknown, token)
			continue
		}
		out[idx] = 1
	}

	if len(unknown) > 0 {
		return nil, &vocab.UnknownLabelError{Vocabulary: set.Name(), Tokens: unknown}
	}

	return out, nil
}

// Decode returns the tokens whose positions are set, in vocabulary order.
func Decode(encoded Encoded, set *vocab.LabelSet) []string {
	tokens := set.Tokens()
	out := make([]string, 0)
	for i, v := range encoded {
		if i < len(tokens) && v != 0 {
			out = append(out, tokens[i])
		}
	}
	return out
}
