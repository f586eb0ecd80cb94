package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/recommend"
	"github.com/spigell/career-recommender/internal/vocab"
)

const (
	PromptAgain = "Another recommendation"
	PromptExit  = "Exit"

	defaultSkill = 5
)

var (
	defaultInterests = []string{"coding"}
	defaultSubjects  = []string{"cs"}
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Recommend a career field for the given interests, subjects and skills",
	Run: func(cmd *cobra.Command, _ []string) {
		predict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringSlice("interests", defaultInterests, "comma separated interests")
	predictCmd.Flags().StringSlice("subjects", defaultSubjects, "comma separated subjects")
	for _, name := range features.SkillNames {
		predictCmd.Flags().Int(strings.ToLower(name), defaultSkill, fmt.Sprintf("%s skill level from %d to %d", strings.ToLower(name), features.MinSkill, features.MaxSkill))
	}
	predictCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	predictCmd.Flags().BoolP("interactive", "i", false, "ask for every input in the terminal")
}

func predict(cmd *cobra.Command) {
	logger := newLogger()
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := validateOutput(output); err != nil {
		logger.Fatal("invalid flag", zap.Error(err))
	}

	svc, err := loadService(config, logger)
	if err != nil {
		logger.Fatal("loading the model", zap.Error(err), zap.String("hint", "run the train command first"))
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := predictInteractive(cmd.OutOrStdout(), svc, output); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		logger.Fatal("invalid flag", zap.Error(err))
	}

	resp, err := svc.Recommend(req)
	if err != nil {
		logger.Fatal("recommendation failed", zap.Error(err))
	}

	if err := printRecommendation(cmd.OutOrStdout(), resp, output); err != nil {
		logger.Fatal("printing the recommendation", zap.Error(err))
	}
}

func requestFromFlags(cmd *cobra.Command) (recommend.Request, error) {
	interests, err := cmd.Flags().GetStringSlice("interests")
	if err != nil {
		return recommend.Request{}, err
	}
	subjects, err := cmd.Flags().GetStringSlice("subjects")
	if err != nil {
		return recommend.Request{}, err
	}

	var values [4]int
	for i, name := range features.SkillNames {
		values[i], err = cmd.Flags().GetInt(strings.ToLower(name))
		if err != nil {
			return recommend.Request{}, err
		}
	}

	return recommend.Request{
		Interests: interests,
		Subjects:  subjects,
		Skills:    features.SkillsFromValues(values),
	}, nil
}

func predictInteractive(w io.Writer, svc *recommend.Service, output string) error {
	voc := svc.Vocabulary()
	interests := vocab.Must(vocab.InterestsName, voc.Interests...)
	subjects := vocab.Must(vocab.SubjectsName, voc.Subjects...)

	for {
		req, err := promptRequest(interests, subjects)
		if err != nil {
			return err
		}

		resp, err := svc.Recommend(req)
		if err != nil {
			return err
		}
		if err := printRecommendation(w, resp, output); err != nil {
			return err
		}

		next := promptui.Select{
			Label: "Proceed?",
			Items: []string{PromptAgain, PromptExit},
		}
		_, action, err := next.Run()
		if err != nil {
			return err
		}
		if action == PromptExit {
			return nil
		}
	}
}

func promptRequest(interests, subjects *vocab.LabelSet) (recommend.Request, error) {
	var req recommend.Request

	rawInterests, err := (&promptui.Prompt{
		Label:    fmt.Sprintf("Interests (comma separated, e.g. %s)", examples(interests)),
		Default:  strings.Join(defaultInterests, ","),
		Validate: validateSelection(interests),
	}).Run()
	if err != nil {
		return req, err
	}

	rawSubjects, err := (&promptui.Prompt{
		Label:    fmt.Sprintf("Subjects (comma separated, e.g. %s)", examples(subjects)),
		Default:  strings.Join(defaultSubjects, ","),
		Validate: validateSelection(subjects),
	}).Run()
	if err != nil {
		return req, err
	}

	var values [4]int
	for i, name := range features.SkillNames {
		raw, err := (&promptui.Prompt{
			Label:    fmt.Sprintf("%s (%d-%d)", name, features.MinSkill, features.MaxSkill),
			Default:  strconv.Itoa(defaultSkill),
			Validate: validateSkill,
		}).Run()
		if err != nil {
			return req, err
		}
		values[i], _ = strconv.Atoi(strings.TrimSpace(raw))
	}

	req.Interests = vocab.Split(rawInterests, ",")
	req.Subjects = vocab.Split(rawSubjects, ",")
	req.Skills = features.SkillsFromValues(values)
	return req, nil
}

func examples(set *vocab.LabelSet) string {
	tokens := set.Tokens()
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, ", ")
}

// validateSelection rejects input with tokens outside set. Empty input is allowed.
func validateSelection(set *vocab.LabelSet) promptui.ValidateFunc {
	return func(input string) error {
		_, err := features.Encode(vocab.Split(input, ","), set)
		return err
	}
}

func validateSkill(input string) error {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if v < features.MinSkill || v > features.MaxSkill {
		return fmt.Errorf("enter a number from %d to %d", features.MinSkill, features.MaxSkill)
	}
	return nil
}

func printRecommendation(w io.Writer, resp *recommend.Response, output string) error {
	if output == outputJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "Recommended career: %s\n\n", resp.Label)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tYOU\tIDEAL")
	user, ideal := resp.Skills.Values(), resp.Ideal.Values()
	for i, name := range features.SkillNames {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", name, user[i], ideal[i])
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CAREER\tMATCH")
	for _, m := range resp.Matches {
		fmt.Fprintf(tw, "%s\t%.1f%%\n", m.Label, m.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if resp.BestMatch.Label != "" && resp.BestMatch.Label != resp.Label {
		fmt.Fprintf(w, "\nClosest skill profile: %s (%.1f%%)\n", resp.BestMatch.Label, resp.BestMatch.Score)
	}
	return nil
}
