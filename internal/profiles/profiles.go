// Package profiles holds the ideal skill profile of every career field.
package profiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/career-recommender/internal/features"
)

// ErrUnknownCareerLabel is returned when a label has no profile.
var ErrUnknownCareerLabel = errors.New("unknown career label")

// Profile is the ideal skill set of one career field.
type Profile struct {
	Label  string          `json:"label" mapstructure:"label" toml:"label"`
	Skills features.Skills `json:"skills" mapstructure:",squash" toml:"-"`
}

// Repository is an ordered, read-only set of profiles.
type Repository struct {
	profiles []Profile
	byLabel  map[string]int
}

// New validates profiles and keeps their order.
func New(profiles ...Profile) (*Repository, error) {
	if len(profiles) == 0 {
		return nil, errors.New("at least one career profile is required")
	}

	r := &Repository{
		profiles: make([]Profile, 0, len(profiles)),
		byLabel:  make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		p.Label = strings.TrimSpace(p.Label)
		if p.Label == "" {
			return nil, errors.New("career profile label must not be empty")
		}
		if _, dup := r.byLabel[p.Label]; dup {
			return nil, fmt.Errorf("duplicate career profile %q", p.Label)
		}
		if err := p.Skills.Validate(); err != nil {
			return nil, fmt.Errorf("career profile %q: %w", p.Label, err)
		}
		r.byLabel[p.Label] = len(r.profiles)
		r.profiles = append(r.profiles, p)
	}
	return r, nil
}

// Default returns the built-in profiles.
func Default() *Repository {
	r, err := New(
		Profile{Label: "Data Science", Skills: features.Skills{Communication: 6, Programming: 9, Management: 5, Creativity: 6}},
		Profile{Label: "Computer Science", Skills: features.Skills{Communication: 5, Programming: 9, Management: 4, Creativity: 5}},
		Profile{Label: "Management Science", Skills: features.Skills{Communication: 9, Programming: 4, Management: 9, Creativity: 6}},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of the profiles in repository order.
func (r *Repository) All() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

func (r *Repository) Labels() []string {
	out := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.Label
	}
	return out
}

func (r *Repository) Len() int { return len(r.profiles) }

// Lookup returns the profile for label.
func (r *Repository) Lookup(label string) (Profile, error) {
	i, ok := r.byLabel[strings.TrimSpace(label)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCareerLabel, label, strings.Join(r.Labels(), ", "))
	}
	return r.profiles[i], nil
}

// Missing returns the labels that have no profile.
func (r *Repository) Missing(labels []string) []string {
	var out []string
	for _, l := range labels {
		if _, ok := r.byLabel[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// fileProfile is the flat TOML shape of one profile.
type fileProfile struct {
	Label         string `toml:"label"`
	Communication int    `toml:"communication"`
	Programming   int    `toml:"programming"`
	Management    int    `toml:"management"`
	Creativity    int    `toml:"creativity"`
}

// LoadFile reads profiles from a TOML file of [[profile]] tables.
func LoadFile(path string) (*Repository, error) {
	var doc struct {
		Profile []fileProfile `toml:"profile"`
	}
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode profiles %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("profiles %s: unknown keys %v", path, undecoded)
	}

	list := make([]Profile, 0, len(doc.Profile))
	for _, fp := range doc.Profile {
		list = append(list, Profile{
			Label: fp.Label,
			Skills: features.Skills{
				Communication: fp.Communication,
				Programming:   fp.Programming,
				Management:    fp.Management,
				Creativity:    fp.Creativity,
			},
		})
	}
	return New(list...)
}

// Decode builds a repository from an untyped configuration value: a list of
// maps with label and the four skill keys.
func Decode(raw any) (*Repository, error) {
	var list []Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &list,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return New(list...)
}
