package features

import (
	"fmt"

	"github.com/spigell/career-recommender/internal/validation"
)

const (
	SkillCommunication = "Communication"
	SkillProgramming   = "Programming"
	SkillManagement    = "Management"
	SkillCreativity    = "Creativity"

	MinSkill = 1
	MaxSkill = 10
)

// SkillNames is the fixed order of the numeric tail of every feature vector
// and of every skill comparison.
var SkillNames = []string{SkillCommunication, SkillProgramming, SkillManagement, SkillCreativity}

// Skills holds the four self-rated skill levels.
type Skills struct {
	Communication int `json:"communication" mapstructure:"communication" toml:"communication" validate:"min=1,max=10"`
	Programming   int `json:"programming" mapstructure:"programming" toml:"programming" validate:"min=1,max=10"`
	Management    int `json:"management" mapstructure:"management" toml:"management" validate:"min=1,max=10"`
	Creativity    int `json:"creativity" mapstructure:"creativity" toml:"creativity" validate:"min=1,max=10"`
}

// Values returns the skills in SkillNames order.
func (s Skills) Values() [4]int {
	return [4]int{s.Communication, s.Programming, s.Management, s.Creativity}
}

// SkillsFromValues is the inverse of Values.
func SkillsFromValues(v [4]int) Skills {
	return Skills{Communication: v[0], Programming: v[1], Management: v[2], Creativity: v[3]}
}

// Validate checks every skill is within [MinSkill, MaxSkill].
func (s Skills) Validate() error {
	return validation.Struct(s)
}

func (s Skills) String() string {
	return fmt.Sprintf("%s=%d, %s=%d, %s=%d, %s=%d",
		SkillCommunication, s.Communication,
		SkillProgramming, s.Programming,
		SkillManagement, s.Management,
		SkillCreativity, s.Creativity,
	)
}
