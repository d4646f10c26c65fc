package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ReferenceDateLayout é o formato aceito para a data de referência.
const ReferenceDateLayout = "2006-01-02"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

type decodeFunc func(data []byte, v interface{}) error

var decoders = map[string]struct {
	name   string
	decode decodeFunc
}{
	".toml": {"TOML", toml.Unmarshal},
	".yaml": {"YAML", yaml.Unmarshal},
	".yml":  {"YAML", yaml.Unmarshal},
	".json": {"JSON", json.Unmarshal},
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	dec, ok := decoders[fileExtension]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config
	if err := dec.decode(fileData, &config); err != nil {
		return nil, fmt.Errorf("error parsing %s file: %w", dec.name, err)
	}

	return &config, nil
}

// MergeConfig aplica os valores do arquivo sobre os argumentos da CLI.
// Flags passadas explicitamente (changed retorna true) têm precedência sobre o arquivo.
func (r *ConfigRepositoryImpl) MergeConfig(cfg *types.Config, args *types.CLIArgs, changed func(flag string) bool) error {
	if cfg == nil {
		return nil
	}

	setString := func(flag, value string, dst *string) {
		if value != "" && !changed(flag) {
			*dst = value
		}
	}

	setString("command", cfg.Command, &args.Command)
	setString("resource", cfg.Resource, &args.Resource)
	setString("report-name", cfg.ReportName, &args.ReportName)
	setString("report-type", cfg.ReportType, &args.ReportType)
	setString("dir", cfg.Dir, &args.Dir)

	if cfg.Months != 0 && !changed("months") {
		args.Months = cfg.Months
	}

	if cfg.Timeout != "" && !changed("timeout") {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", cfg.Timeout, err)
		}
		args.Timeout = timeout
	}

	if cfg.ReferenceDate != "" && !changed("reference-date") {
		ref, err := ParseReferenceDate(cfg.ReferenceDate)
		if err != nil {
			return err
		}
		args.ReferenceDate = ref
	}

	return nil
}

// ParseReferenceDate interpreta uma data YYYY-MM-DD em UTC.
func ParseReferenceDate(value string) (time.Time, error) {
	ref, err := time.ParseInLocation(ReferenceDateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return ref, nil
}
