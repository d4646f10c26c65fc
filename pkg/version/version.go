package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/pterm/pterm"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var Version = "0.0.0-dev"
var Commit = ""
var BuildTime = ""

const (
	devVersion   = "0.0.0-dev"
	releasesURL  = "https://api.github.com/repos/diillson/cluster-utilization-go/releases/latest"
	installHint  = "go install github.com/diillson/cluster-utilization-go/cmd/cluster-util@latest"
	checkTimeout = 3 * time.Second
)

// buildSettings abstrai debug.BuildInfo.Settings para facilitar testes.
type buildSettings map[string]string

func readBuildSettings() buildSettings {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return nil
	}
	settings := make(buildSettings, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

// apply preenche Commit, BuildTime e Version a partir das informações de VCS
// embutidas pelo Go. Valores vindos de ldflags não são sobrescritos.
func (s buildSettings) apply() {
	if Version != "" && Version != devVersion {
		return
	}

	if rev := s["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}

	if t := s["vcs.time"]; BuildTime == "" && t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := s["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(s["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

func init() {
	readBuildSettings().apply()
}

// CheckLatestVersion avisa quando há uma release mais nova publicada.
func CheckLatestVersion(currentVersion string) {
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Get(releasesURL)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	if isNewer(latestVersion, currentVersion) {
		pterm.Warning.Println(fmt.Sprintf("A new version of Cluster Utilization Report is available: %s", latestVersion))
		pterm.Info.Println("Please update using: " + installHint)
	}
}

// isNewer compara as versões semanticamente ("0.10.0" é mais nova que "0.9.0").
// Versões que não são semver nunca são consideradas mais novas.
func isNewer(latest, current string) bool {
	l, err := goversion.NewVersion(latest)
	if err != nil {
		return false
	}
	c, err := goversion.NewVersion(current)
	if err != nil {
		return false
	}
	return l.GreaterThan(c)
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}

	commit := Commit
	if commit == "" {
		commit = "development"
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
}
