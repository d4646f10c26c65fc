package cli

import (
	"fmt"

	"github.com/diillson/cluster-utilization-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   ____ _           _              _   _ _   _ _ _          _   _
  / ___| |_   _ ___| |_ ___ _ __  | | | | |_(_) (_)______ _| |_(_) ___  _ __
 | |   | | | | / __| __/ _ \ '__| | | | | __| | | |_  / _' | __| |/ _ \| '_ \
 | |___| | |_| \__ \ ||  __/ |    | |_| | |_| | | |/ / (_| | |_| | (_) | | | |
  \____|_|\__,_|___/\__\___|_|     \___/ \__|_|_|_/___\__,_|\__|_|\___/|_| |_|
        `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Cluster Utilization Report (v%s)", formattedVersion)))
}
