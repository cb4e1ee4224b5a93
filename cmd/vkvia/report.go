// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"vkvia-cli/internal/app/run"
	"vkvia-cli/internal/config"
	"vkvia-cli/internal/discovery"
	"vkvia-cli/internal/issue"
	"vkvia-cli/internal/report"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// reportOutputPath overrides output.path from the config file.
	reportOutputPath string
	// reportUnique overrides output.unique from the config file.
	reportUnique bool
	// reportFormat overrides output.format from the config file.
	reportFormat string
	// reportSkipTest disables the vkcube smoke test for this run.
	reportSkipTest bool

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Analyze the Vulkan installation and generate a report",
		Long: `Analyze the Vulkan installation and generate a report.

The analysis scans every driver and layer manifest source on the
machine, resolves and load-tests the referenced libraries, locates the
Vulkan runtime, and optionally runs the vkcube demo as a smoke test.

The process exit code reflects the worst finding, so the command can
be used from scripts to gate on a healthy Vulkan install.`,
		RunE: runReport,
	}
)

func init() {
	reportCmd.Flags().StringVarP(&reportOutputPath, "output-path", "o", "", "report file or directory (default: vkvia.html in the current directory)")
	reportCmd.Flags().BoolVar(&reportUnique, "unique-output", false, "embed a timestamp in the report filename")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "report format: html or console")
	reportCmd.Flags().BoolVar(&reportSkipTest, "skip-test", false, "skip the vkcube smoke test")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		if rendered, rerr := issue.Get(issue.ConfigLoadFailedId).Render("dark"); rerr == nil {
			fmt.Fprintln(os.Stderr, rendered)
		}
		return err
	}
	applyReportFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(verbose)
	orch := run.New(cfg, logger)

	rep, sum, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case config.FormatConsole:
		if err := report.NewConsoleRenderer().Render(rep, os.Stdout); err != nil {
			return err
		}
	default:
		path, err := orch.WriteReport(rep, report.NewHTMLRenderer(), "html")
		if err != nil {
			return err
		}
		fmt.Println(SuccessStyle.Render("Report written: ") + ValueStyle.Render(path))
	}

	return reportVerdict(sum)
}

// applyReportFlags layers explicitly-set flags over the loaded config.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output-path") {
		cfg.Output.Path = config.OutputPath(reportOutputPath)
	}
	if cmd.Flags().Changed("unique-output") {
		cfg.Output.Unique = reportUnique
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = config.OutputFormat(reportFormat)
	}
	if reportSkipTest {
		cfg.Validation.Enabled = false
	}
	if verbose {
		cfg.UI.Verbose = true
	}
}

// newLogger builds the CLI logger; verbose mode lowers the level to Debug.
func newLogger(verboseMode bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verboseMode {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// reportVerdict prints the final status line and converts a non-success
// verdict into an ExitError so scripts can gate on the exit code.
func reportVerdict(sum *run.Summary) error {
	if sum.Verdict == discovery.VerdictSuccess {
		fmt.Println(SuccessStyle.Render("Analysis result: " + sum.Verdict.String()))
		return nil
	}

	fmt.Println(ErrorStyle.Render("Analysis result: " + sum.Verdict.String()))
	if id, ok := verdictIssue(sum.Verdict); ok {
		if rendered, err := issue.Get(id).Render("dark"); err == nil {
			fmt.Fprintln(os.Stderr, rendered)
		}
	}
	return &ExitError{
		Code: sum.Verdict.ExitCode(),
		Err:  fmt.Errorf("analysis result: %s", sum.Verdict),
	}
}

// verdictIssue maps a verdict to the troubleshooting entry shown alongside it.
func verdictIssue(v discovery.Verdict) (issue.Id, bool) {
	switch v {
	case discovery.VerdictTestFailed:
		return issue.ValidationFailedId, true
	case discovery.VerdictRuntimeNotFound:
		return issue.RuntimeNotFoundId, true
	case discovery.VerdictLayerJSONParseError:
		return issue.LayerManifestParseErrorId, true
	case discovery.VerdictMissingDriverLib:
		return issue.DriverLibraryMissingId, true
	case discovery.VerdictDriverJSONParseError, discovery.VerdictMissingDriverJSON:
		return issue.DriverManifestNotFoundId, true
	default:
		return 0, false
	}
}
