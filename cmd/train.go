package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier on labeled samples and save the model artifact",
	Run: func(cmd *cobra.Command, _ []string) {
		train(cmd)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("data", "careers_data.csv", "training samples: .csv, .tsv or a SQLite database (.db, .sqlite, .sqlite3)")
	trainCmd.Flags().Bool("strict", false, "abort on the first malformed row instead of skipping it")
	trainCmd.Flags().StringP("output", "o", outputText, "report format: text or json")

	viper.BindPFlag("data", trainCmd.Flags().Lookup("data"))
	viper.BindPFlag("strict", trainCmd.Flags().Lookup("strict"))
}

func train(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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

	logger.Info("starting the training", zap.String("version", version), zap.String("data", config.Data))

	trainingConfig, err := config.training()
	if err != nil {
		logger.Fatal("preparing the training", zap.Error(err))
	}

	report, err := training.Run(ctx, trainingConfig, logger)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	if err := printReport(cmd.OutOrStdout(), report, output); err != nil {
		logger.Fatal("printing the report", zap.Error(err))
	}
}

func (c *Config) training() (training.Config, error) {
	layout, _, err := c.layout()
	if err != nil {
		return training.Config{}, err
	}
	repo, err := c.profiles()
	if err != nil {
		return training.Config{}, err
	}

	return training.Config{
		DataPath:  c.Data,
		ModelPath: c.Model,
		Strict:    c.Strict,
		Layout:    layout,
		Params:    c.Training.Params,
		TestSize:  c.Training.TestSize,
		Seed:      c.Training.Seed,
		Profiles:  repo,
	}, nil
}

func printReport(w io.Writer, report *training.Report, output string) error {
	if output == outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	meta := report.Metadata
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "model\t%s\n", report.ModelPath)
	fmt.Fprintf(tw, "id\t%s\n", meta.ID)
	fmt.Fprintf(tw, "classes\t%v\n", meta.Classes)
	fmt.Fprintf(tw, "samples\t%d train, %d held out, %d skipped\n", meta.TrainSamples, meta.TestSamples, meta.SkippedRows)
	fmt.Fprintf(tw, "accuracy\t%.3f\n", meta.Accuracy)
	fmt.Fprintf(tw, "tree\tdepth %d, %d leaves\n", meta.Depth, meta.Leaves)
	if len(report.MissingProfiles) > 0 {
		fmt.Fprintf(tw, "no profile\t%v\n", report.MissingProfiles)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "STAGE\tINITIAL\tDROPPED\tLEFT")
	for _, st := range report.Stages {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", st.Name, st.Initial, st.Dropped, st.Left)
	}
	return tw.Flush()
}
