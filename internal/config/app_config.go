// Package config discovers, merges, and validates treetouch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/temirov/treetouch/internal/types"
	"github.com/temirov/treetouch/internal/utils"
)

const (
	// DefaultSpaces is the indent unit used when nothing else is configured.
	DefaultSpaces = 4

	environmentPrefix = "TREETOUCH_"

	keySpaces  = "spaces"
	keyVerbose = "verbose"
	keyForce   = "force"
	keyDryRun  = "dry_run"
	keyFormat  = "format"

	spacesErrorMessage = "spaces must be at least 1"
)

var configurationKeys = []string{keySpaces, keyVerbose, keyForce, keyDryRun, keyFormat}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds optional overrides. Nil fields and empty strings are unset.
type ApplicationConfiguration struct {
	Spaces  *int   `mapstructure:"spaces" yaml:"spaces"`
	Verbose *bool  `mapstructure:"verbose" yaml:"verbose"`
	Force   *bool  `mapstructure:"force" yaml:"force"`
	DryRun  *bool  `mapstructure:"dry_run" yaml:"dry_run"`
	Format  string `mapstructure:"format" yaml:"format"`
}

// Settings are fully resolved run options.
type Settings struct {
	Root    string
	Spaces  int
	Verbose bool
	Force   bool
	DryRun  bool
	Format  string
}

// LoadApplicationConfiguration merges the global file, the local file, the local .env file,
// and TREETOUCH_ environment variables, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	environmentConfig, environmentErr := loadEnvironmentConfiguration(filepath.Join(workingDirectory, utils.DotEnvFileName))
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	return merged.Merge(environmentConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		reader.SetConfigType("yaml")
	}
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadEnvironmentConfiguration reads TREETOUCH_ variables from dotEnvPath, then from the process environment.
func loadEnvironmentConfiguration(dotEnvPath string) (ApplicationConfiguration, error) {
	values := map[string]interface{}{}

	if _, statErr := os.Stat(dotEnvPath); statErr == nil {
		dotEnvValues, readErr := godotenv.Read(dotEnvPath)
		if readErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("read %s: %w", dotEnvPath, readErr)
		}
		for name, value := range dotEnvValues {
			if key, ok := configurationKeyForVariable(name); ok {
				values[key] = value
			}
		}
	}
	for _, key := range configurationKeys {
		if value, ok := os.LookupEnv(environmentPrefix + strings.ToUpper(key)); ok {
			values[key] = value
		}
	}
	if len(values) == 0 {
		return ApplicationConfiguration{}, nil
	}

	reader := viper.New()
	if mergeErr := reader.MergeConfigMap(values); mergeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("merge environment configuration: %w", mergeErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode environment configuration: %w", decodeErr)
	}
	return config, nil
}

func configurationKeyForVariable(name string) (string, bool) {
	if !strings.HasPrefix(name, environmentPrefix) {
		return "", false
	}
	key := strings.ToLower(strings.TrimPrefix(name, environmentPrefix))
	return key, utils.ContainsString(configurationKeys, key)
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Spaces != nil {
		spaces := *override.Spaces
		result.Spaces = &spaces
	}
	if override.Verbose != nil {
		result.Verbose = cloneBool(override.Verbose)
	}
	if override.Force != nil {
		result.Force = cloneBool(override.Force)
	}
	if override.DryRun != nil {
		result.DryRun = cloneBool(override.DryRun)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	return result
}

// Settings resolves the configuration against built-in defaults.
func (config ApplicationConfiguration) Settings(root string) Settings {
	settings := Settings{
		Root:   root,
		Spaces: DefaultSpaces,
		Format: types.FormatRaw,
	}
	if config.Spaces != nil {
		settings.Spaces = *config.Spaces
	}
	if config.Verbose != nil {
		settings.Verbose = *config.Verbose
	}
	if config.Force != nil {
		settings.Force = *config.Force
	}
	if config.DryRun != nil {
		settings.DryRun = *config.DryRun
	}
	if config.Format != "" {
		settings.Format = strings.ToLower(config.Format)
	}
	return settings
}

// Validate checks that the settings describe a runnable build.
func (settings Settings) Validate() error {
	return validation.ValidateStruct(&settings,
		validation.Field(&settings.Root, validation.Required.Error("root directory is required")),
		validation.Field(&settings.Spaces, validation.Required.Error(spacesErrorMessage), validation.Min(1).Error(spacesErrorMessage)),
		validation.Field(&settings.Format, validation.Required, validation.In(formatValues()...).Error("format must be one of "+strings.Join(types.SupportedFormats, ", "))),
	)
}

func formatValues() []interface{} {
	values := make([]interface{}, 0, len(types.SupportedFormats))
	for _, format := range types.SupportedFormats {
		values = append(values, format)
	}
	return values
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
