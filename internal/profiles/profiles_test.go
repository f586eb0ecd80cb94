package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spigell/career-recommender/internal/features"
)

func TestDefault(t *testing.T) {
	repo := Default()

	want := []string{"Data Science", "Computer Science", "Management Science"}
	if got := repo.Labels(); !slices.Equal(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}

	p, err := repo.Lookup("Data Science")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Skills != (features.Skills{Communication: 6, Programming: 9, Management: 5, Creativity: 6}) {
		t.Fatalf("unexpected skills %+v", p.Skills)
	}
}

func TestLookupUnknownLabel(t *testing.T) {
	_, err := Default().Lookup("Astronaut")
	if !errors.Is(err, ErrUnknownCareerLabel) {
		t.Fatalf("expected ErrUnknownCareerLabel, got %v", err)
	}
	if !strings.Contains(err.Error(), "Astronaut") {
		t.Fatalf("error should name the label: %v", err)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	repo := Default()
	all := repo.All()
	all[0].Label = "changed"

	if repo.All()[0].Label != "Data Science" {
		t.Fatal("All must not expose internal state")
	}
}

func TestMissing(t *testing.T) {
	got := Default().Missing([]string{"Data Science", "Astronaut", "Management Science"})
	if !slices.Equal(got, []string{"Astronaut"}) {
		t.Fatalf("missing = %v", got)
	}
}

func TestNewRejects(t *testing.T) {
	valid := features.Skills{Communication: 5, Programming: 5, Management: 5, Creativity: 5}

	tests := []struct {
		name     string
		profiles []Profile
		want     string
	}{
		{name: "empty", want: "at least one"},
		{name: "blank label", profiles: []Profile{{Label: "  ", Skills: valid}}, want: "label must not be empty"},
		{
			name:     "duplicate",
			profiles: []Profile{{Label: "A", Skills: valid}, {Label: " A ", Skills: valid}},
			want:     "duplicate",
		},
		{
			name:     "out of range",
			profiles: []Profile{{Label: "A", Skills: features.Skills{Communication: 11, Programming: 5, Management: 5, Creativity: 5}}},
			want:     "communication must be at most 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.profiles...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	content := `
[[profile]]
label = "Design"
communication = 7
programming = 3
management = 4
creativity = 10

[[profile]]
label = "Data Science"
communication = 6
programming = 9
management = 5
creativity = 6
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	repo, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := repo.Labels(); !slices.Equal(got, []string{"Design", "Data Science"}) {
		t.Fatalf("labels = %v", got)
	}
	p, _ := repo.Lookup("Design")
	if p.Skills.Creativity != 10 {
		t.Fatalf("creativity = %d", p.Skills.Creativity)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	content := "[[profile]]\nlabel = \"A\"\ncommunication = 5\nprogramming = 5\nmanagement = 5\ncreativity = 5\nleadership = 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("expected unknown keys error, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	raw := []any{
		map[string]any{"label": "Ops", "communication": "6", "programming": 7, "management": 8, "creativity": 3},
	}

	repo, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, err := repo.Lookup("Ops")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Skills != (features.Skills{Communication: 6, Programming: 7, Management: 8, Creativity: 3}) {
		t.Fatalf("unexpected skills %+v", p.Skills)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	raw := []any{map[string]any{"label": "Ops", "communication": 6, "programming": 7, "management": 8, "creativity": 3, "charisma": 9}}
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected error for unknown field")
	}
}
