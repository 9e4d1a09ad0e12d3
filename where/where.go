// Package where resolves the directories the application reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/tasvirchi/tasvir/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "TASVIR_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory. It follows the platform convention
// unless TASVIR_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache is the directory of cached media configs and the version check.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// MediaConfigs is the cache file of fetched media configs.
func MediaConfigs() string {
	return filepath.Join(Cache(), "media.json")
}

func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
