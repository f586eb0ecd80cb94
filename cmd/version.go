package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-recommender/internal/artifact"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the model artifact in use",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)

		path := viper.GetString("model")
		meta, err := artifact.ReadMetadata(path)
		if err != nil {
			fmt.Printf("model: not available (%s)\n", path)
			return
		}
		fmt.Printf("model: %s (id %s, format %d, trained %s)\n", path, meta.ID, meta.FormatVersion, meta.TrainedAt.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
