// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tree/internal/ansi"
	"github.com/temirov/tree/internal/config"
	"github.com/temirov/tree/internal/services/clipboard"
	"github.com/temirov/tree/internal/tree"
	"github.com/temirov/tree/internal/utils"
	"github.com/temirov/tree/internal/watch"
)

const (
	allFlagName             = "all"
	allFlagShorthand        = "a"
	depthFlagName           = "depth"
	depthFlagShorthand      = "d"
	directoryFormatFlagName = "directory-format"
	colorForceFlagName      = "color-force"
	asciiFlagName           = "ascii"
	copyFlagName            = "copy"
	watchFlagName           = "watch"
	configFlagName          = "config"
	verboseFlagName         = "verbose"
	verboseFlagShorthand    = "v"
	versionFlagName         = "version"
	globalFlagName          = "global"
	forceFlagName           = "force"

	allFlagDescription             = "include hidden files in the file tree"
	depthFlagDescription           = "maximum directory depth to print"
	directoryFormatFlagDescription = "ANSI SGR parameters (0-255) applied to directory names, comma separated or repeated; 0 = none, 1 = bold, 2 = dim"
	colorForceFlagDescription      = "force color output even if stdout is not a terminal"
	asciiFlagDescription           = "draw branches with ASCII characters"
	copyFlagDescription            = "copy the rendered tree to the system clipboard"
	watchFlagDescription           = "re-render the tree whenever the directory changes"
	configFlagDescription          = "configuration file to use instead of " + utils.LocalConfigFileName
	verboseFlagDescription         = "enable verbose output"
	versionFlagDescription         = "display application version"
	globalFlagDescription          = "write the global configuration under the home directory"
	forceFlagDescription           = "overwrite an existing configuration file"

	versionTemplate      = utils.ApplicationName + " version: %s\n"
	rootUse              = utils.ApplicationName + " [DIRECTORY]"
	rootShortDescription = "print a directory as a file tree"
	rootLongDescription  = `Recursively prints the structure of a directory and its subdirectories as a file tree.
DIRECTORY defaults to the current working directory. Hidden entries are skipped unless --all is set,
and directory names are styled when stdout is a terminal or --color-force is set.
See https://en.wikipedia.org/wiki/ANSI_escape_code#Select_Graphic_Rendition_parameters for SGR parameters.`
	rootUsageExample = `  # Print the current directory, three levels deep
  tree -d 3

  # Bold red underlined directory names, including hidden files
  tree -a --directory-format 1,31,4 ./project

  # Keep the tree on screen and refresh it as files change
  tree --watch src`
	initUse              = "init"
	initShortDescription = "write a default configuration file"

	defaultDirectoryFormat = "1"
	clearScreenSequence    = "\033[H\033[2J"

	errorNegativeDepthFormat = "depth must not be negative, got %d"
	errorWorkingDirectory    = "unable to determine working directory: %w"
	errorLoadConfiguration   = "loading configuration: %w"
	errorRenderFormat        = "rendering %s: %w"
	errorWatchFormat         = "watching %s: %w"
	initCompletedFormat      = "Wrote configuration to %s\n"
	warningClipboardMessage  = "unable to copy tree to clipboard"
	warningUnreadableMessage = "subdirectory skipped"
	debugOptionsMessage      = "effective options"
	debugRenderMessage       = "render completed"
	debugWatchMessage        = "watching for changes"
	exitCodeInvalidRoot      = 1
)

// ExitError carries a process exit code for failures whose diagnostic was already printed.
type ExitError struct {
	Code int
	Err  error
}

func (exitError *ExitError) Error() string {
	return exitError.Err.Error()
}

func (exitError *ExitError) Unwrap() error {
	return exitError.Err
}

// Dependencies are the collaborators the command line interface writes to and queries.
type Dependencies struct {
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	LogLevel         *zap.AtomicLevel
	Clipboard        clipboard.Copier
	IsTerminal       func() bool
	WorkingDirectory string
	HomeDirectory    string
}

// renderOptions collects flag values for the root command.
type renderOptions struct {
	includeHidden   bool
	maxDepth        int
	directoryFormat []string
	colorForce      bool
	ascii           bool
	copyToClipboard bool
	watchChanges    bool
	verbose         bool
	configPath      string
}

// Execute runs the tree application with process defaults.
func Execute(ctx context.Context, logger *zap.Logger, logLevel *zap.AtomicLevel) error {
	rootCommand := NewRootCommand(Dependencies{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Logger:     logger,
		LogLevel:   logLevel,
		Clipboard:  clipboard.NewService(),
		IsTerminal: stdoutIsTerminal,
	})
	return rootCommand.ExecuteContext(ctx)
}

// stdoutIsTerminal reports whether standard output is attached to a terminal.
func stdoutIsTerminal() bool {
	descriptor := os.Stdout.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = withDefaults(dependencies)
	var options renderOptions
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runRender(command, dependencies, options, arguments)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.includeHidden, allFlagName, allFlagShorthand, false, allFlagDescription)
	flagSet.IntVarP(&options.maxDepth, depthFlagName, depthFlagShorthand, tree.DefaultMaxDepth, depthFlagDescription)
	flagSet.StringSliceVar(&options.directoryFormat, directoryFormatFlagName, []string{defaultDirectoryFormat}, directoryFormatFlagDescription)
	registerBooleanFlag(flagSet, &options.colorForce, colorForceFlagName, "", false, colorForceFlagDescription)
	registerBooleanFlag(flagSet, &options.ascii, asciiFlagName, "", false, asciiFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, "", false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.watchChanges, watchFlagName, "", false, watchFlagDescription)
	registerBooleanFlag(flagSet, &options.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func withDefaults(dependencies Dependencies) Dependencies {
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.IsTerminal == nil {
		dependencies.IsTerminal = func() bool { return false }
	}
	return dependencies
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(dependencies.Stdout, initCompletedFormat, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &overwrite, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}

// applyConfiguration fills options the user did not set on the command line from configuration files.
func applyConfiguration(command *cobra.Command, options renderOptions, loaded config.ApplicationConfiguration) renderOptions {
	flagSet := command.Flags()
	if loaded.All != nil && !flagSet.Changed(allFlagName) {
		options.includeHidden = *loaded.All
	}
	if loaded.Depth != nil && !flagSet.Changed(depthFlagName) {
		options.maxDepth = *loaded.Depth
	}
	if len(loaded.DirectoryFormat) > 0 && !flagSet.Changed(directoryFormatFlagName) {
		options.directoryFormat = append([]string{}, loaded.DirectoryFormat...)
	}
	if loaded.ColorForce != nil && !flagSet.Changed(colorForceFlagName) {
		options.colorForce = *loaded.ColorForce
	}
	if loaded.ASCII != nil && !flagSet.Changed(asciiFlagName) {
		options.ascii = *loaded.ASCII
	}
	if loaded.Verbose != nil && !flagSet.Changed(verboseFlagName) {
		options.verbose = *loaded.Verbose
	}
	if loaded.Copy != nil && !flagSet.Changed(copyFlagName) {
		options.copyToClipboard = *loaded.Copy
	}
	return options
}

// runRender validates the directory and prints its tree, optionally copying and watching it.
func runRender(command *cobra.Command, dependencies Dependencies, options renderOptions, arguments []string) error {
	workingDirectory := dependencies.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(errorWorkingDirectory, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return fmt.Errorf(errorLoadConfiguration, loadError)
	}
	options = applyConfiguration(command, options, loaded)

	if options.verbose && dependencies.LogLevel != nil {
		dependencies.LogLevel.SetLevel(zap.DebugLevel)
	}
	if options.maxDepth < 0 {
		return fmt.Errorf(errorNegativeDepthFormat, options.maxDepth)
	}

	directoryPath := workingDirectory
	if len(arguments) > 0 {
		directoryPath = arguments[0]
		if !filepath.IsAbs(directoryPath) {
			directoryPath = filepath.Join(workingDirectory, directoryPath)
		}
	}

	useColor := options.colorForce || dependencies.IsTerminal()
	style := ansi.Disabled()
	if useColor {
		style = ansi.NewStyleFromTokens(options.directoryFormat)
	}
	renderConfig := tree.Config{
		IncludeHidden: options.includeHidden,
		MaxDepth:      options.maxDepth,
		Style:         style,
		Glyphs:        tree.UnicodeGlyphs,
	}
	if options.ascii {
		renderConfig.Glyphs = tree.ASCIIGlyphs
	}

	dependencies.Logger.Debug(debugOptionsMessage,
		zap.String("directory", directoryPath),
		zap.Bool("all", options.includeHidden),
		zap.Int("max_depth", options.maxDepth),
		zap.Strings("directory_format", options.directoryFormat),
		zap.String("directory_style", fmt.Sprintf("%q", style.Start)),
		zap.Bool("color", useColor),
	)

	absoluteRootPath, validationError := tree.ValidateRoot(directoryPath)
	if validationError != nil {
		var rootError *tree.InvalidRootError
		if errors.As(validationError, &rootError) {
			fmt.Fprintln(dependencies.Stdout, rootError.Error())
			return &ExitError{Code: exitCodeInvalidRoot, Err: rootError}
		}
		return validationError
	}

	render := func() error {
		return renderOnce(dependencies, absoluteRootPath, renderConfig, options.copyToClipboard)
	}
	if renderError := render(); renderError != nil {
		return renderError
	}
	if !options.watchChanges {
		return nil
	}
	return watchAndRender(command.Context(), dependencies, absoluteRootPath, renderConfig, render)
}

func renderOnce(dependencies Dependencies, absoluteRootPath string, renderConfig tree.Config, copyToClipboard bool) error {
	var captured bytes.Buffer
	writer := dependencies.Stdout
	if copyToClipboard {
		writer = io.MultiWriter(dependencies.Stdout, &captured)
	}

	warningHandler := tree.WithWarningHandler(func(message string) {
		dependencies.Logger.Warn(warningUnreadableMessage, zap.String("detail", message))
	})
	result, renderError := tree.RenderDirectory(writer, absoluteRootPath, renderConfig, warningHandler)
	if renderError != nil {
		return fmt.Errorf(errorRenderFormat, absoluteRootPath, renderError)
	}
	dependencies.Logger.Debug(debugRenderMessage,
		zap.Int("directories", result.Directories),
		zap.Int("files", result.Files),
		zap.Int("unreadable", result.Unreadable),
	)

	if copyToClipboard {
		plainText := clipboard.StripStyle(captured.String(), renderConfig.Style)
		if copyError := dependencies.Clipboard.Copy(plainText); copyError != nil {
			dependencies.Logger.Warn(warningClipboardMessage, zap.Error(copyError))
		}
	}
	return nil
}

func watchAndRender(ctx context.Context, dependencies Dependencies, absoluteRootPath string, renderConfig tree.Config, render func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	watcher, watcherError := watch.New(absoluteRootPath, watch.Options{
		IncludeHidden: renderConfig.IncludeHidden,
		MaxDepth:      renderConfig.MaxDepth,
		Logger:        dependencies.Logger,
	})
	if watcherError != nil {
		return fmt.Errorf(errorWatchFormat, absoluteRootPath, watcherError)
	}
	defer watcher.Close()

	dependencies.Logger.Debug(debugWatchMessage, zap.Strings("directories", watcher.Directories()))
	return watcher.Run(ctx, func() error {
		if dependencies.IsTerminal() {
			fmt.Fprint(dependencies.Stdout, clearScreenSequence)
		} else {
			fmt.Fprintln(dependencies.Stdout)
		}
		return render()
	})
}
