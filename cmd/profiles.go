package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the career profiles skills are compared against",
	Run: func(cmd *cobra.Command, _ []string) {
		listProfiles(cmd)
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
}

func listProfiles(cmd *cobra.Command) {
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

	repo, err := config.profiles()
	if err != nil {
		logger.Fatal("loading profiles", zap.Error(err))
	}

	if err := printProfiles(cmd.OutOrStdout(), repo.All(), output); err != nil {
		logger.Fatal("printing profiles", zap.Error(err))
	}
}

func printProfiles(w io.Writer, list []profiles.Profile, output string) error {
	if output == outputJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tCOMMUNICATION\tPROGRAMMING\tMANAGEMENT\tCREATIVITY")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", p.Label, p.Skills.Communication, p.Skills.Programming, p.Skills.Management, p.Skills.Creativity)
	}
	return tw.Flush()
}
