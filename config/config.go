// Package config loads the service list and run settings for a compatibility report.
package config

import (
	"fmt"
	"net/url"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/document"
	"github.com/cicompat/cicompat/pipeline"
)

// Defaults applied by Load for options left out of the file.
const (
	DefaultMajors    = 2
	DefaultCIFile    = ".gitlab-ci.yml"
	DefaultOutputDir = "."
)

// Config is the report configuration file.
type Config struct {
	// GitLabHost is the base URL of the GitLab instance, e.g. https://gitlab.example.com
	GitLabHost string `yaml:"gitlab_base_api_host"`
	// Majors is how many of the latest major lines to report per service
	Majors int `yaml:"majors,omitempty"`
	// CIFile is the pipeline file fetched at each tag
	CIFile string `yaml:"ci_file,omitempty"`
	// OutputDir receives one <subject>_output.md per subject
	OutputDir string    `yaml:"output_dir,omitempty"`
	Services  []Service `yaml:"services"`
}

// Service is one GitLab project whose pipeline declares versions.
type Service struct {
	Name   string       `yaml:"name"`
	CI     CI           `yaml:"ci"`
	Matrix []MatrixItem `yaml:"matrix"`
}

// CI locates the service's project.
type CI struct {
	// ProjectID is the numeric ID or the full path (group/project) of the project
	ProjectID string `yaml:"project_id"`
}

// MatrixItem is the configuration form of pipeline.MatrixItem.
type MatrixItem struct {
	Path    string `yaml:"path"`
	Name    string `yaml:"name"`
	Include *int   `yaml:"include,omitempty"`
}

// Item converts the configuration entry to a pipeline.MatrixItem.
func (m MatrixItem) Item() pipeline.MatrixItem {
	return pipeline.MatrixItem{Path: m.Path, Subject: m.Name, Include: m.Include}
}

// Load reads, decodes and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, &cierrors.ConfigError{Option: "config file", Value: path, Cause: err}
	}
	return Parse(data)
}

// Parse decodes and validates configuration YAML, applying defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &cierrors.ConfigError{Option: "config file", Message: "invalid YAML", Cause: err}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Majors == 0 {
		c.Majors = DefaultMajors
	}
	if c.CIFile == "" {
		c.CIFile = DefaultCIFile
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Validate reports the first problem found as a *cierrors.ConfigError.
func (c *Config) Validate() error {
	if c.GitLabHost == "" {
		return &cierrors.ConfigError{Option: "gitlab_base_api_host", Message: "is required"}
	}
	u, err := url.Parse(c.GitLabHost)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &cierrors.ConfigError{
			Option:  "gitlab_base_api_host",
			Value:   c.GitLabHost,
			Message: "must be an absolute http(s) URL",
			Cause:   err,
		}
	}
	if c.Majors < 1 {
		return &cierrors.ConfigError{Option: "majors", Value: c.Majors, Message: "must be at least 1"}
	}
	if len(c.Services) == 0 {
		return &cierrors.ConfigError{Option: "services", Message: "at least one service is required"}
	}

	names := make(map[string]bool, len(c.Services))
	for i, svc := range c.Services {
		opt := fmt.Sprintf("services[%d]", i)
		if svc.Name == "" {
			return &cierrors.ConfigError{Option: opt + ".name", Message: "is required"}
		}
		if names[svc.Name] {
			return &cierrors.ConfigError{Option: opt + ".name", Value: svc.Name, Message: "duplicate service name"}
		}
		names[svc.Name] = true
		if svc.CI.ProjectID == "" {
			return &cierrors.ConfigError{Option: opt + ".ci.project_id", Message: "is required"}
		}
		for j, item := range svc.Matrix {
			if err := item.validate(fmt.Sprintf("%s.matrix[%d]", opt, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m MatrixItem) validate(opt string) error {
	if m.Name == "" {
		return &cierrors.ConfigError{Option: opt + ".name", Message: "is required"}
	}
	if _, err := document.ParsePath(m.Path); err != nil {
		return &cierrors.ConfigError{Option: opt + ".path", Value: m.Path, Cause: err}
	}
	if m.Include != nil && *m.Include < 0 {
		return &cierrors.ConfigError{Option: opt + ".include", Value: *m.Include, Message: "must not be negative"}
	}
	return nil
}

// Subjects returns the distinct matrix item names across all services, in the
// order they first appear.
func (c *Config) Subjects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, svc := range c.Services {
		for _, item := range svc.Matrix {
			if !seen[item.Name] {
				seen[item.Name] = true
				out = append(out, item.Name)
			}
		}
	}
	return out
}
