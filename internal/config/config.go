// Package config resolves runtime settings from the environment, an optional
// conf file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvDBPath   = "ACTIVITY_DB_PATH"
	EnvLogLevel = "ACTIVITY_LOG_LEVEL"
	EnvLogPath  = "ACTIVITY_LOG_PATH"
	EnvDevMode  = "ACTIVITY_DEV_MODE"

	DefaultLogLevel = "WARN"
	appDir          = "activity"
)

type Config struct {
	DBPath   string
	LogLevel string
	LogPath  string
	DevMode  bool
}

// Dir is the directory holding the database, log and conf file.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(cfg, appDir), nil
}

// DefaultFile is the conf file read by Load.
func DefaultFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir+".conf"), nil
}

// Load reads the default conf file, if present, and applies the environment
// on top of it.
func Load() (Config, error) {
	file, err := DefaultFile()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(file)
}

// LoadFile is Load with an explicit conf file. A missing file is not an
// error.
func LoadFile(file string) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	fromFile := map[string]string{}
	if file != "" {
		fromFile, err = godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			fromFile = map[string]string{}
		} else if err != nil {
			return Config{}, fmt.Errorf("read conf %s: %w", file, err)
		}
	}

	devMode, err := parseBool(coalesce(os.Getenv(EnvDevMode), fromFile[EnvDevMode]))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", EnvDevMode, err)
	}

	cfg := Config{
		DBPath:   coalesce(os.Getenv(EnvDBPath), fromFile[EnvDBPath], filepath.Join(dir, appDir+".db")),
		LogLevel: coalesce(os.Getenv(EnvLogLevel), fromFile[EnvLogLevel], DefaultLogLevel),
		LogPath:  coalesce(os.Getenv(EnvLogPath), fromFile[EnvLogPath], filepath.Join(dir, appDir+".log")),
		DevMode:  devMode,
	}

	// dev mode gets a scratch database and verbose logs
	if cfg.DevMode {
		cfg.LogLevel = "DEBUG"
		cfg.DBPath = filepath.Join(os.TempDir(), appDir+"-dev.db")
		cfg.LogPath = filepath.Join(dir, "dev.log")
	}
	return cfg, nil
}

// parseBool treats an unset value as false.
func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
