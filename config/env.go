package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cicompat/cicompat/cierrors"
)

// Environment variables read by LoadEnv.
const (
	EnvConfigFilePath = "CONFIG_FILE_PATH"
	EnvGitLabToken    = "GITLAB_TOKEN"
)

// DefaultConfigFile is used when CONFIG_FILE_PATH is unset.
const DefaultConfigFile = "config.yml"

// Env holds the settings taken from the process environment.
type Env struct {
	ConfigFilePath string
	GitLabToken    string
}

// LoadEnv loads the given dotenv files (".env" when none are given) and reads
// the environment. Missing dotenv files are ignored, and variables already set
// in the process take precedence over the files.
func LoadEnv(files ...string) Env {
	_ = godotenv.Load(files...)

	env := Env{
		ConfigFilePath: strings.TrimSpace(os.Getenv(EnvConfigFilePath)),
		GitLabToken:    strings.TrimSpace(os.Getenv(EnvGitLabToken)),
	}
	if env.ConfigFilePath == "" {
		env.ConfigFilePath = DefaultConfigFile
	}
	return env
}

// RequireToken returns the GitLab token or a *cierrors.ConfigError when unset.
func (e Env) RequireToken() (string, error) {
	if e.GitLabToken == "" {
		return "", &cierrors.ConfigError{Option: EnvGitLabToken, Message: "is not set"}
	}
	return e.GitLabToken, nil
}
