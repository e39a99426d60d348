// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gimtex/internal/config"
	"github.com/temirov/gimtex/internal/scan"
	"github.com/temirov/gimtex/internal/secrets"
	"github.com/temirov/gimtex/internal/services/clipboard"
	"github.com/temirov/gimtex/internal/tokenizer"
	"github.com/temirov/gimtex/internal/types"
	"github.com/temirov/gimtex/internal/utils"
)

const (
	copyFlagName    = "copy"
	formatFlagName  = "format"
	filterFlagName  = "filter"
	diffFlagName    = "diff"
	numbersFlagName = "numbers"
	maxSizeFlagName = "max-size"
	modelFlagName   = "model"
	configFlagName  = "config"
	versionFlagName = "version"

	copyFlagDescription    = "copy output to clipboard instead of printing it"
	formatFlagDescription  = "output format (markdown, xml)"
	filterFlagDescription  = "filter files by glob pattern (e.g. \"*.go\")"
	diffFlagDescription    = "only extract files changed relative to the last commit"
	numbersFlagDescription = "add line numbers to output"
	maxSizeFlagDescription = "maximum file size in bytes (0 disables the bound)"
	modelFlagDescription   = "tokenizer model to use for token counting"
	configFlagDescription  = "path to a configuration file"
	versionFlagDescription = "display application version"

	versionTemplate      = "gimtex version: %s\n"
	invalidFormatMessage = "Invalid format value '%s'"
	defaultPath          = "."

	rootUse              = "gimtex [path]"
	rootShortDescription = "extract a directory subtree into an LLM-ready text payload"
	rootLongDescription  = `gimtex converts a filesystem subtree into a single text payload suitable for
a large-language-model context window. It discovers files, renders a project
tree, redacts likely secrets, optionally annotates line numbers, counts
tokens, and assembles a markdown or XML document.`

	rootUsageExample = `  # Dump the current directory to stdout
  gimtex .

  # Dump and copy to clipboard (silent mode)
  gimtex . --copy

  # Dump only Go files under src/
  gimtex src/ -i "*.go"

  # Dump git changes in XML format
  gimtex --diff --format xml`

	banner = `
  ____ ___ __  __ _____ _______  __
 / ___|_ _|  \/  |_   _| ____\ \/ /
| |  _ | || |\/| | | | |  _|  \  /
| |_| || || |  | | | | | |___ /  \
 \____|___|_|  |_| |_| |_____/_/\_\
`
	tagline = ">> GIMTEX :: Git-Integrated Module for Text EXtraction"

	// tokenCautionThreshold and tokenDangerThreshold tint the metrics
	// dashboard by context-window pressure.
	tokenCautionThreshold = 30_000
	tokenDangerThreshold  = 100_000
)

// Presentation styles used on the diagnostic channel only; they never reach
// the payload.
var (
	bannerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	taglineStyle      = lipgloss.NewStyle().Italic(true)
	statusLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	tokenOkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	tokenCautionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	tokenDangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	charCountStyle    = lipgloss.NewStyle().Bold(true)
)

// scanOptions stores flag values for one invocation.
type scanOptions struct {
	copyToClipboard bool
	outputFormat    string
	filterGlob      string
	gitDiff         bool
	lineNumbers     bool
	maxFileSize     int64
	tokenizerModel  string
	configFilePath  string
}

// Execute runs the gimtex application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var options scanOptions
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         bannerStyle.Render(banner) + "\n" + taglineStyle.Render(tagline) + "\n\n" + rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			// Guard against accidental huge scans: with no path and no
			// --diff, print help instead of scanning the current directory.
			if len(arguments) == 0 && !options.gitDiff {
				return command.Help()
			}
			return runScan(command, arguments, options)
		},
	}

	rootCommand.Flags().BoolVarP(&options.copyToClipboard, copyFlagName, "c", false, copyFlagDescription)
	rootCommand.Flags().StringVarP(&options.outputFormat, formatFlagName, "f", types.FormatMarkdown, formatFlagDescription)
	rootCommand.Flags().StringVarP(&options.filterGlob, filterFlagName, "i", "", filterFlagDescription)
	rootCommand.Flags().BoolVarP(&options.gitDiff, diffFlagName, "d", false, diffFlagDescription)
	rootCommand.Flags().BoolVarP(&options.lineNumbers, numbersFlagName, "n", false, numbersFlagDescription)
	rootCommand.Flags().Int64Var(&options.maxFileSize, maxSizeFlagName, 0, maxSizeFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	return rootCommand
}

// supportedOutputFormats lists every payload format the composer understands.
var supportedOutputFormats = []string{types.FormatMarkdown, types.FormatXML}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	return utils.ContainsString(supportedOutputFormats, format)
}

// runScan resolves configuration, executes the scan, delivers the payload,
// and reports the metrics dashboard.
func runScan(command *cobra.Command, arguments []string, options scanOptions) error {
	logger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return fmt.Errorf("initialize logger: %w", loggerError)
	}
	defer logger.Sync()

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	options = applyConfiguration(command, options, applicationConfiguration)

	outputFormat := strings.ToLower(options.outputFormat)
	if !isSupportedFormat(outputFormat) {
		return fmt.Errorf(invalidFormatMessage, outputFormat)
	}

	targetPath := defaultPath
	if len(arguments) > 0 {
		targetPath = arguments[0]
	}
	absoluteRoot, absolutePathError := filepath.Abs(targetPath)
	if absolutePathError != nil {
		return fmt.Errorf("resolve path '%s': %w", targetPath, absolutePathError)
	}
	rootInformation, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return fmt.Errorf("path '%s' is not accessible: %w", targetPath, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf("path '%s' is not a directory", targetPath)
	}

	tokenCounter, _, counterError := tokenizer.NewCounter(options.tokenizerModel)
	if counterError != nil {
		return counterError
	}
	secretScanner := secrets.NewScanner(secrets.DefaultDetectors(), func(message string) {
		logger.Warn(message)
	})

	pruneSet := scan.DefaultPruneSet()
	if len(applicationConfiguration.Prune) > 0 {
		pruneSet = scan.PruneSetFromNames(applicationConfiguration.Prune)
	}

	selectionMode := types.ModeWalk
	printStatus("Scanning target: %s", absoluteRoot)
	if options.gitDiff {
		selectionMode = types.ModeGitDiff
		printStatus("Git intelligence mode: active")
	}
	if options.filterGlob != "" {
		printStatus("Precision filtering: %s", options.filterGlob)
	}

	runner := scan.Runner{
		Config: types.ScanConfig{
			Root:        absoluteRoot,
			Mode:        selectionMode,
			FilterGlob:  options.filterGlob,
			Format:      outputFormat,
			LineNumbers: options.lineNumbers,
			MaxFileSize: options.maxFileSize,
		},
		Scanner: secretScanner,
		Counter: tokenCounter,
		Logger:  logger,
		Prune:   pruneSet,
	}
	payload, runError := runner.Run()
	if runError != nil {
		return runError
	}

	deliverPayload(logger, payload, options.copyToClipboard)
	printDashboard(payload)
	return nil
}

// applyConfiguration overlays configuration-file defaults onto flags the user
// did not set explicitly.
func applyConfiguration(command *cobra.Command, options scanOptions, configuration config.ApplicationConfiguration) scanOptions {
	flags := command.Flags()
	if !flags.Changed(formatFlagName) && configuration.Format != "" {
		options.outputFormat = configuration.Format
	}
	if !flags.Changed(numbersFlagName) && configuration.Numbers != nil {
		options.lineNumbers = *configuration.Numbers
	}
	if !flags.Changed(copyFlagName) && configuration.Copy != nil {
		options.copyToClipboard = *configuration.Copy
	}
	if !flags.Changed(filterFlagName) && configuration.Filter != "" {
		options.filterGlob = configuration.Filter
	}
	if !flags.Changed(modelFlagName) && configuration.Model != "" {
		options.tokenizerModel = configuration.Model
	}
	if !flags.Changed(maxSizeFlagName) && configuration.MaxFileSize > 0 {
		options.maxFileSize = configuration.MaxFileSize
	}
	return options
}

// deliverPayload writes the payload to the clipboard or stdout. Clipboard
// failure degrades to stdout so the payload is never lost.
func deliverPayload(logger *zap.Logger, payload types.Payload, copyToClipboard bool) {
	if !copyToClipboard {
		fmt.Println(payload.Text)
		return
	}
	copier := clipboard.NewService()
	if copyError := copier.Copy(payload.Text); copyError != nil {
		logger.Warn(fmt.Sprintf("Clipboard failure: %v; falling back to stdout", copyError))
		fmt.Println(payload.Text)
		return
	}
	printStatus("Payload copied: %d chars", payload.CharCount)
}

// printStatus writes a styled progress note to the diagnostic channel.
func printStatus(format string, arguments ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", statusLabelStyle.Render("[>>]"), fmt.Sprintf(format, arguments...))
}

// printDashboard reports the aggregate metrics on the diagnostic channel,
// tinting the token count by context-window pressure.
func printDashboard(payload types.Payload) {
	tokenStyle := tokenOkStyle
	if payload.TokenCount >= tokenDangerThreshold {
		tokenStyle = tokenDangerStyle
	} else if payload.TokenCount >= tokenCautionThreshold {
		tokenStyle = tokenCautionStyle
	}
	fmt.Fprintf(
		os.Stderr,
		"%s Payload metrics: %s tokens | %s chars\n",
		statusLabelStyle.Render("[i]"),
		tokenStyle.Render(fmt.Sprintf("%d", payload.TokenCount)),
		charCountStyle.Render(fmt.Sprintf("%d", payload.CharCount)),
	)
}
