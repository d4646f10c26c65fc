package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/config"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/source"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/sreport"
	"github.com/diillson/cluster-utilization-go/internal/application/usecase"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
	"github.com/diillson/cluster-utilization-go/pkg/version"
	"github.com/spf13/cobra"
)

const defaultReportName = "utilizacao_cpu_cluster"

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd            *cobra.Command
	utilizationUseCase *usecase.UtilizationUseCase
	version            string
	now                func() time.Time
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
		now:     time.Now,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:   "cluster-util",
		Short: "Monthly cluster utilization report from Slurm sreport",
		Long: `Runs "sreport cluster utilization" once per calendar month over a rolling window,
normalizes the percentages so each month adds up to exactly 100 and saves the series.`,
		Version:       formattedVersion,
		RunE:          app.runCollect,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "Cluster Utilization Report version: %s\n" .Version}}`)

	rootCmd.Flags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.Flags().String("command", sreport.DefaultCommand, "Path to the sreport binary")
	rootCmd.Flags().StringP("resource", "T", sreport.DefaultResource, "Trackable resource (TRES) to report")
	rootCmd.Flags().IntP("months", "m", 12, "Number of past calendar months to collect")
	rootCmd.Flags().String("reference-date", "", "Reference date YYYY-MM-DD; the window ends in the month before it (default: today)")
	rootCmd.Flags().Duration("timeout", sreport.DefaultTimeout, "Timeout for each sreport invocation")
	rootCmd.Flags().StringP("report-name", "n", defaultReportName, "Base name for the report file (without extension)")
	rootCmd.Flags().StringP("report-type", "y", "json", "Report type: json, csv or pdf")
	rootCmd.Flags().StringP("dir", "d", "", "Directory to save the report file (default: current directory)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display a previously generated utilization series",
		Long: `Loads a utilization series from a local file, an http(s) URL or an s3://bucket/key
location and displays it. Without --source the ` + source.EnvVar + ` environment variable is used,
falling back to ` + source.DefaultPath + `.`,
		RunE:          app.runShow,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	showCmd.Flags().StringP("source", "s", "", "File path, http(s) URL or s3:// location of the series")
	showCmd.Flags().StringP("resource", "T", "", "Only display this resource")
	rootCmd.AddCommand(showCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	command, _ := flags.GetString("command")
	resource, _ := flags.GetString("resource")
	months, _ := flags.GetInt("months")
	referenceDate, _ := flags.GetString("reference-date")
	timeout, _ := flags.GetDuration("timeout")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetString("report-type")
	dir, _ := flags.GetString("dir")

	args := &types.CLIArgs{
		ConfigFile: configFile,
		Command:    command,
		Resource:   resource,
		Months:     months,
		Timeout:    timeout,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}

	if referenceDate != "" {
		ref, err := config.ParseReferenceDate(referenceDate)
		if err != nil {
			return nil, err
		}
		args.ReferenceDate = ref
	} else {
		now := app.now()
		args.ReferenceDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	return args, nil
}

// resolveDir converte o diretório de saída em caminho absoluto; vazio vira o diretório atual.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// runCollect é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCollect(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	if err := app.utilizationUseCase.LoadConfig(cliArgs, cmd.Flags().Changed); err != nil {
		return err
	}

	if cliArgs.Dir, err = resolveDir(cliArgs.Dir); err != nil {
		return err
	}

	// Ctrl+C interrompe a coleta sem gravar arquivo parcial
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = app.utilizationUseCase.RunCollect(ctx, cliArgs)
	return err
}

// runShow exibe uma série existente.
func (app *CLIApp) runShow(cmd *cobra.Command, _ []string) error {
	src, _ := cmd.Flags().GetString("source")
	resource, _ := cmd.Flags().GetString("resource")

	if src == "" {
		src = os.Getenv(source.EnvVar)
	}

	return app.utilizationUseCase.RunShow(cmd.Context(), &types.ShowArgs{
		Source:   src,
		Resource: resource,
	})
}

// SetUtilizationUseCase sets the utilization use case for the CLI app.
func (app *CLIApp) SetUtilizationUseCase(useCase *usecase.UtilizationUseCase) {
	app.utilizationUseCase = useCase
}
