package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/treetouch/internal/utils"
)

type configTestCase struct {
	name          string
	globalContent string
	localContent  string
	dotEnvContent string
	environment   map[string]string
	explicitPath  string
	expectSpaces  *int
	expectVerbose *bool
	expectForce   *bool
	expectDryRun  *bool
	expectFormat  string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range configurationKeys {
		name := environmentPrefix + strings.ToUpper(key)
		if previous, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { _ = os.Setenv(name, previous) })
			_ = os.Unsetenv(name)
		}
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:          "local_overrides_global",
			globalContent: "spaces: 2\nverbose: true\nformat: json\n",
			localContent:  "spaces: 3\nforce: true\n",
			expectSpaces:  intPointer(3),
			expectVerbose: boolPointer(true),
			expectForce:   boolPointer(true),
			expectFormat:  "json",
		},
		{
			name:          "explicit_path_only",
			globalContent: "format: json\n",
			localContent:  "spaces: 8\n",
			explicitPath:  "custom.yaml",
			expectSpaces:  intPointer(2),
			expectFormat:  "xml",
		},
		{
			name:          "dotenv_overrides_files",
			localContent:  "spaces: 3\ndry_run: false\n",
			dotEnvContent: "TREETOUCH_SPACES=6\nTREETOUCH_DRY_RUN=true\nUNRELATED=1\n",
			expectSpaces:  intPointer(6),
			expectDryRun:  boolPointer(true),
		},
		{
			name:          "process_environment_overrides_dotenv",
			dotEnvContent: "TREETOUCH_SPACES=6\n",
			environment:   map[string]string{"TREETOUCH_SPACES": "1", "TREETOUCH_VERBOSE": "true"},
			expectSpaces:  intPointer(1),
			expectVerbose: boolPointer(true),
		},
		{
			name: "nothing_configured",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			clearEnvironment(t)
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte("spaces: 2\nformat: xml\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}
			if testCase.dotEnvContent != "" {
				dotEnvPath := filepath.Join(workingDir, utils.DotEnvFileName)
				if err := os.WriteFile(dotEnvPath, []byte(testCase.dotEnvContent), 0o600); err != nil {
					t.Fatalf("write .env: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)
			for name, value := range testCase.environment {
				t.Setenv(name, value)
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Format)
			}
			if testCase.expectSpaces == nil {
				if loadedConfig.Spaces != nil {
					t.Fatalf("expected no spaces override, got %d", *loadedConfig.Spaces)
				}
			} else if loadedConfig.Spaces == nil || *loadedConfig.Spaces != *testCase.expectSpaces {
				t.Fatalf("unexpected spaces value")
			}
			assertBoolPointer(t, "verbose", loadedConfig.Verbose, testCase.expectVerbose)
			assertBoolPointer(t, "force", loadedConfig.Force, testCase.expectForce)
			assertBoolPointer(t, "dry_run", loadedConfig.DryRun, testCase.expectDryRun)
		})
	}
}

func assertBoolPointer(t *testing.T, name string, actual *bool, expected *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override", name)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", name)
	}
}

func TestLoadApplicationConfigurationRejectsMissingExplicitFile(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("HOME", t.TempDir())
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestSettingsAppliesDefaults(t *testing.T) {
	settings := ApplicationConfiguration{}.Settings("/tmp/root")
	if settings.Spaces != DefaultSpaces {
		t.Fatalf("expected default spaces %d, got %d", DefaultSpaces, settings.Spaces)
	}
	if settings.Format != "raw" {
		t.Fatalf("expected raw format, got %s", settings.Format)
	}
	if settings.Verbose || settings.Force || settings.DryRun {
		t.Fatalf("expected boolean options to default to false")
	}

	overridden := ApplicationConfiguration{Spaces: intPointer(2), Format: "JSON", Force: boolPointer(true)}.Settings("/tmp/root")
	if overridden.Spaces != 2 || overridden.Format != "json" || !overridden.Force {
		t.Fatalf("unexpected settings %+v", overridden)
	}
}

func TestSettingsValidate(t *testing.T) {
	testCases := []struct {
		name        string
		settings    Settings
		expectError bool
	}{
		{
			name:     "valid",
			settings: Settings{Root: "/tmp", Spaces: 4, Format: "raw"},
		},
		{
			name:        "zero_spaces",
			settings:    Settings{Root: "/tmp", Spaces: 0, Format: "raw"},
			expectError: true,
		},
		{
			name:        "negative_spaces",
			settings:    Settings{Root: "/tmp", Spaces: -2, Format: "raw"},
			expectError: true,
		},
		{
			name:        "unknown_format",
			settings:    Settings{Root: "/tmp", Spaces: 4, Format: "yaml"},
			expectError: true,
		},
		{
			name:        "missing_root",
			settings:    Settings{Spaces: 4, Format: "raw"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.settings.Validate()
			if testCase.expectError && err == nil {
				t.Fatalf("expected validation error")
			}
			if !testCase.expectError && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
