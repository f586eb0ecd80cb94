package vocab

const (
	InterestsName = "interests"
	SubjectsName  = "subjects"
)

var defaultInterests = []string{
	"coding", "analysis", "leadership", "people", "building", "logic",
	"problem solving", "planning", "business", "analytics", "organizing",
	"debugging", "creativity", "innovation", "strategy", "negotiation",
	"system design", "statistics", "project management", "marketing",
	"networking", "design",
}

var defaultSubjects = []string{
	"cs", "math", "economics", "psychology", "physics", "stats", "management",
	"finance", "english", "business", "it", "art", "design", "ai", "sociology",
}

// DefaultInterests returns the built-in interest vocabulary.
func DefaultInterests() *LabelSet { return Must(InterestsName, defaultInterests...) }

// DefaultSubjects returns the built-in subject vocabulary.
func DefaultSubjects() *LabelSet { return Must(SubjectsName, defaultSubjects...) }

// Resolve returns a vocabulary built from tokens, or the fallback when tokens is empty.
func Resolve(name string, tokens []string, fallback func() *LabelSet) (*LabelSet, error) {
	if len(tokens) == 0 {
		return fallback(), nil
	}
	return New(name, tokens...)
}
