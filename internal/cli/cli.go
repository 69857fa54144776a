// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/treetouch/internal/builder"
	"github.com/temirov/treetouch/internal/config"
	"github.com/temirov/treetouch/internal/input"
	"github.com/temirov/treetouch/internal/output"
	"github.com/temirov/treetouch/internal/services/clipboard"
	"github.com/temirov/treetouch/internal/services/stream"
	"github.com/temirov/treetouch/internal/structure"
	"github.com/temirov/treetouch/internal/types"
	"github.com/temirov/treetouch/internal/utils"
)

const (
	fileFlagName      = "file"
	clipboardFlagName = "clipboard"
	rootFlagName      = "root"
	spacesFlagName    = "spaces"
	verboseFlagName   = "verbose"
	forceFlagName     = "force"
	dryRunFlagName    = "dry-run"
	formatFlagName    = "format"
	configFlagName    = "config"
	debugFlagName     = "debug"
	versionFlagName   = "version"
	globalFlagName    = "global"

	fileFlagShorthand    = "f"
	rootFlagShorthand    = "r"
	spacesFlagShorthand  = "s"
	verboseFlagShorthand = "v"

	versionTemplate      = "treetouch version: %s\n"
	rootUse              = "treetouch"
	rootShortDescription = "create directories and files from an indented outline"
	rootLongDescription  = `treetouch reads an indented outline of directories and files and creates it on disk.
Each line names one entry; a trailing / or \ marks a directory. Indentation (a multiple of --spaces)
places an entry inside the most recent directory one level shallower.

The outline is read from --file, from the clipboard with --clipboard, or from standard input.
Existing non-empty files are skipped unless --force is given, in which case they are touched.
Use --dry-run to report what would be created without writing anything.`
	rootUsageExample = `  # Build the outline in structure.txt under ./project and list every entry
  treetouch --file structure.txt --root ./project --verbose

  # Preview a two-space outline from the clipboard as JSON
  treetouch --clipboard --spaces 2 --dry-run --format json`

	checkShortDescription = "validate an outline without creating anything"
	checkLongDescription  = `Parse the outline and report the first indentation or path error.
Nothing is read from or written to the target directory.`
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + `, or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.
An existing file is only replaced with --force.`

	fileFlagDescription       = "read the outline from a file"
	clipboardFlagDescription  = "read the outline from the system clipboard"
	rootFlagDescription       = "directory the outline is created in (default: working directory)"
	spacesFlagDescription     = "spaces per indentation level"
	verboseFlagDescription    = "print every created or skipped entry"
	forceFlagDescription      = "touch existing non-empty files instead of skipping them"
	dryRunFlagDescription     = "report what would be created without writing anything"
	formatFlagDescription     = "output format (raw, json, xml)"
	configFlagDescription     = "configuration file to use instead of ./" + utils.ConfigFileName
	debugFlagDescription      = "log every parsed entry"
	versionFlagDescription    = "display application version"
	initGlobalFlagDescription = "write the configuration under the home directory"
	initForceFlagDescription  = "overwrite an existing configuration file"

	checkSuccessFormat          = "Structure OK: %d entries\n"
	initSuccessFormat           = "Configuration written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	debugLoggerErrorFormat      = "create debug logger: %w"
	dryRunLogMessage            = "dry run: nothing will be written"
	configurationLogMessage     = "configuration resolved"
	logFieldRoot                = "root"
	logFieldSpaces              = "spaces"
	logFieldFormat              = "format"
	logFieldForce               = "force"
)

// sourceOptions stores the flags shared by every command that reads an outline.
type sourceOptions struct {
	filePath     string
	useClipboard bool
	spaces       int
	configPath   string
	debug        bool
}

// buildOptions stores the flags of the root build command.
type buildOptions struct {
	root    string
	verbose bool
	force   bool
	dryRun  bool
	format  string
}

type initOptions struct {
	global bool
	force  bool
}

// Execute runs the treetouch application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger, clipboard.NewService())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command, which performs the build.
func createRootCommand(logger *zap.Logger, clipboardReader clipboard.Reader) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	var showVersion bool
	var sources sourceOptions
	var build buildOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return runBuild(command, logger, clipboardReader, sources, build)
		},
	}

	addSourceFlags(rootCommand, &sources)
	rootFlags := rootCommand.Flags()
	rootFlags.StringVarP(&build.root, rootFlagName, rootFlagShorthand, "", rootFlagDescription)
	registerBooleanFlagP(rootFlags, &build.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	registerBooleanFlag(rootFlags, &build.force, forceFlagName, false, forceFlagDescription)
	registerBooleanFlag(rootFlags, &build.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	rootFlags.StringVar(&build.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(rootFlags, &showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(
		createCheckCommand(clipboardReader, &sources),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// addSourceFlags registers the outline source flags as persistent flags so check shares them.
func addSourceFlags(command *cobra.Command, options *sourceOptions) {
	flagSet := command.PersistentFlags()
	flagSet.StringVarP(&options.filePath, fileFlagName, fileFlagShorthand, "", fileFlagDescription)
	registerBooleanFlag(flagSet, &options.useClipboard, clipboardFlagName, false, clipboardFlagDescription)
	flagSet.IntVarP(&options.spaces, spacesFlagName, spacesFlagShorthand, config.DefaultSpaces, spacesFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &options.debug, debugFlagName, false, debugFlagDescription)
}

// createCheckCommand returns the check subcommand.
func createCheckCommand(clipboardReader clipboard.Reader, sources *sourceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   types.CommandCheck,
		Short: checkShortDescription,
		Long:  checkLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsError := resolveSettings(command, *sources, buildOptions{})
			if settingsError != nil {
				return settingsError
			}
			lines, loadError := loadLines(command, clipboardReader, *sources)
			if loadError != nil {
				return loadError
			}
			entries, parseError := structure.Parse(lines, settings.Spaces)
			if parseError != nil {
				return parseError
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), checkSuccessFormat, len(entries))
			return err
		},
	}
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var options initOptions
	initCommand := &cobra.Command{
		Use:   types.CommandInit,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			target := config.InitTargetLocal
			if options.global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            options.force,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, err := fmt.Fprintf(command.OutOrStdout(), initSuccessFormat, path)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &options.global, globalFlagName, false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &options.force, forceFlagName, false, initForceFlagDescription)
	return initCommand
}

// runBuild loads the outline and streams builder outcomes into the selected renderer.
func runBuild(command *cobra.Command, logger *zap.Logger, clipboardReader clipboard.Reader, sources sourceOptions, build buildOptions) error {
	settings, settingsError := resolveSettings(command, sources, build)
	if settingsError != nil {
		return settingsError
	}
	if sources.debug {
		debugLogger, loggerError := utils.NewApplicationLoggerAtLevel(zapcore.DebugLevel)
		if loggerError != nil {
			return fmt.Errorf(debugLoggerErrorFormat, loggerError)
		}
		defer func() { _ = debugLogger.Sync() }()
		logger = debugLogger
	}
	logger.Debug(configurationLogMessage,
		zap.String(logFieldRoot, settings.Root),
		zap.Int(logFieldSpaces, settings.Spaces),
		zap.String(logFieldFormat, settings.Format),
		zap.Bool(logFieldForce, settings.Force),
	)

	lines, loadError := loadLines(command, clipboardReader, sources)
	if loadError != nil {
		return loadError
	}

	renderer, rendererError := output.NewRenderer(settings.Format, command.OutOrStdout(), command.ErrOrStderr(), settings.Verbose)
	if rendererError != nil {
		return rendererError
	}

	if settings.DryRun {
		logger.Info(dryRunLogMessage, zap.String(logFieldRoot, settings.Root))
	}

	treeBuilder := builder.New(builder.NewFilesystem(settings.DryRun), logger)
	options := builder.Options{
		Root:       settings.Root,
		IndentUnit: settings.Spaces,
		Force:      settings.Force,
		DryRun:     settings.DryRun,
	}
	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		_, buildError := treeBuilder.Build(streamCtx, options, lines, stream.NewEmitter(streamCtx, events))
		return buildError
	}
	if dispatchError := stream.Dispatch(command.Context(), producer, renderer.Handle); dispatchError != nil {
		return dispatchError
	}
	return renderer.Flush()
}

// resolveSettings merges configuration sources and lets explicitly set flags win.
func resolveSettings(command *cobra.Command, sources sourceOptions, build buildOptions) (config.Settings, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.Settings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfig, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: sources.configPath,
	})
	if loadError != nil {
		return config.Settings{}, loadError
	}

	flagSet := command.Flags()
	var overrides config.ApplicationConfiguration
	if flagSet.Changed(spacesFlagName) {
		spaces := sources.spaces
		overrides.Spaces = &spaces
	}
	if flagSet.Changed(verboseFlagName) {
		overrides.Verbose = &build.verbose
	}
	if flagSet.Changed(forceFlagName) {
		overrides.Force = &build.force
	}
	if flagSet.Changed(dryRunFlagName) {
		overrides.DryRun = &build.dryRun
	}
	if flagSet.Changed(formatFlagName) {
		overrides.Format = build.format
	}

	root := build.root
	if root == "" {
		root = workingDirectory
	}
	settings := applicationConfig.Merge(overrides).Settings(root)
	if validationError := settings.Validate(); validationError != nil {
		return config.Settings{}, validationError
	}
	return settings, nil
}

func loadLines(command *cobra.Command, clipboardReader clipboard.Reader, sources sourceOptions) ([]structure.Line, error) {
	return input.LoadLines(input.Source{
		FilePath:      sources.filePath,
		UseClipboard:  sources.useClipboard,
		Stdin:         command.InOrStdin(),
		Prompt:        command.ErrOrStderr(),
		ClipboardText: clipboardReader,
	})
}
