package repository

import (
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	MergeConfig(cfg *types.Config, args *types.CLIArgs, changed func(flag string) bool) error
}
