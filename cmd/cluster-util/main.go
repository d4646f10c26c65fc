package main

import (
	"fmt"
	"os"

	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/config"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/export"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/source"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/sreport"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driving/cli"
	"github.com/diillson/cluster-utilization-go/internal/application/usecase"
	"github.com/diillson/cluster-utilization-go/pkg/console"
	"github.com/diillson/cluster-utilization-go/pkg/version"
	"github.com/joho/godotenv"
)

func main() {
	// Variáveis de ambiente do arquivo .env, se existir
	_ = godotenv.Load()

	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	sourceRepo := source.NewSourceRepository(source.DefaultPath)
	consoleImpl := console.NewConsole()

	utilizationUseCase := usecase.NewUtilizationUseCase(
		sreport.NewSreportRepository,
		exportRepo,
		configRepo,
		sourceRepo,
		consoleImpl,
	)

	app.SetUtilizationUseCase(utilizationUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
