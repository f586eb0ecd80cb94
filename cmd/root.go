package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-recommender/internal/artifact"
	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/logger"
	"github.com/spigell/career-recommender/internal/profiles"
	"github.com/spigell/career-recommender/internal/recommend"
	"github.com/spigell/career-recommender/internal/server"
	"github.com/spigell/career-recommender/internal/tree"
	"github.com/spigell/career-recommender/internal/vocab"
)

const (
	app       = "career-recommender"
	envPrefix = "CAREER"

	outputText = "text"
	outputJSON = "json"
)

type Config struct {
	Data         string           `mapstructure:"data"`
	Model        string           `mapstructure:"model"`
	Strict       bool             `mapstructure:"strict"`
	ProfilesFile string           `mapstructure:"profiles-file"`
	Profiles     []any            `mapstructure:"profiles"`
	Vocabulary   VocabularyConfig `mapstructure:"vocabulary"`
	Training     TrainingConfig   `mapstructure:"training"`
	Server       server.Config    `mapstructure:"server"`
}

// VocabularyConfig overrides the built-in token lists. Empty lists keep the defaults.
type VocabularyConfig struct {
	Interests []string `mapstructure:"interests"`
	Subjects  []string `mapstructure:"subjects"`
}

type TrainingConfig struct {
	TestSize    float64 `mapstructure:"test-size"`
	Seed        uint64  `mapstructure:"seed"`
	tree.Params `mapstructure:",squash"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-recommender suggests a career field from interests, subjects and skill levels",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("model", "m", artifact.DefaultPath, "path of the model artifact")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data", "careers_data.csv")
	v.SetDefault("model", artifact.DefaultPath)
	v.SetDefault("strict", false)
	v.SetDefault("profiles-file", "")
	v.SetDefault("profiles", []any{})
	v.SetDefault("vocabulary.interests", []string{})
	v.SetDefault("vocabulary.subjects", []string{})

	params := tree.DefaultParams()
	v.SetDefault("training.test-size", tree.DefaultTestSize)
	v.SetDefault("training.seed", tree.DefaultSeed)
	v.SetDefault("training.max-depth", params.MaxDepth)
	v.SetDefault("training.min-samples-split", params.MinSamplesSplit)
	v.SetDefault("training.min-samples-leaf", params.MinSamplesLeaf)

	v.SetDefault("server.listen", server.DefaultListen)
	v.SetDefault("server.read-timeout", server.DefaultReadTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file every setting keeps its default.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// newLogger builds the logger and config every command starts with.
func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// layout resolves the configured vocabularies. explicit reports whether any
// list came from configuration rather than the defaults.
func (c *Config) layout() (layout *features.Layout, explicit bool, err error) {
	interests, err := vocab.Resolve(vocab.InterestsName, c.Vocabulary.Interests, vocab.DefaultInterests)
	if err != nil {
		return nil, false, fmt.Errorf("vocabulary.interests: %w", err)
	}
	subjects, err := vocab.Resolve(vocab.SubjectsName, c.Vocabulary.Subjects, vocab.DefaultSubjects)
	if err != nil {
		return nil, false, fmt.Errorf("vocabulary.subjects: %w", err)
	}

	layout, err = features.NewLayout(interests, subjects)
	if err != nil {
		return nil, false, err
	}
	return layout, len(c.Vocabulary.Interests) > 0 || len(c.Vocabulary.Subjects) > 0, nil
}

// profiles picks the profile source: a TOML file, inline profiles, or the built-ins.
func (c *Config) profiles() (*profiles.Repository, error) {
	switch {
	case strings.TrimSpace(c.ProfilesFile) != "":
		return profiles.LoadFile(c.ProfilesFile)
	case len(c.Profiles) > 0:
		return profiles.Decode(c.Profiles)
	default:
		return profiles.Default(), nil
	}
}

// loadService loads the artifact and builds the inference service.
func loadService(config *Config, logger *zap.Logger) (*recommend.Service, error) {
	art, err := artifact.Load(config.Model)
	if err != nil {
		return nil, err
	}

	layout, explicit, err := config.layout()
	if err != nil {
		return nil, err
	}
	if explicit {
		if err := art.CheckVocabulary(layout.Interests(), layout.Subjects()); err != nil {
			return nil, err
		}
	}

	repo, err := config.profiles()
	if err != nil {
		return nil, err
	}

	logger.Debug("model loaded",
		zap.String("path", config.Model),
		zap.String("model_id", art.Metadata.ID),
		zap.Time("trained_at", art.Metadata.TrainedAt),
		zap.Strings("classes", art.Metadata.Classes),
	)

	return recommend.New(art, repo, logger)
}

func validateOutput(output string) error {
	switch output {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output %q: expected %s or %s", output, outputText, outputJSON)
	}
}
