// Package config resolves runtime configuration from a YAML file,
// environment variables and CLI flags, tracking where each value came from.
// Precedence is CLI > environment > file > built-in default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a configuration value plus its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries CLI-level overrides into Resolve.
type ResolveOptions struct {
	ConfigPath   string
	CLIDBPath    string
	CLIRulesPath string
	CLIBotToken  string
	CLIReportDir string
}

// Resolved is the fully resolved runtime configuration.
type Resolved struct {
	ConfigPath string `json:"config_path"`

	DBPath    ResolvedValue `json:"db_path"`
	RulesPath ResolvedValue `json:"rules_path"`
	BotToken  ResolvedValue `json:"bot_token"`
	ReportDir ResolvedValue `json:"report_dir"`
}

type fileConfig struct {
	DBPath    string `yaml:"db_path"`
	RulesPath string `yaml:"rules_path"`
	ReportDir string `yaml:"report_dir"`
	Bot       struct {
		Token string `yaml:"token"`
	} `yaml:"bot"`
}

// DefaultConfigPath is ~/.accord/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".accord", "config.yaml")
}

// Resolve loads the config file (missing file is fine), applies environment
// overrides, then CLI overrides.
func Resolve(opts ResolveOptions) (Resolved, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := Resolved{ConfigPath: path}
	out.DBPath = ResolvedValue{Value: "~/.accord/accord.db", Source: SourceDefault}
	out.ReportDir = ResolvedValue{Value: "~/.accord/reports", Source: SourceDefault}
	// Empty rules path means the built-in rule table.
	out.RulesPath = ResolvedValue{Source: SourceDefault}

	cfg, err := loadFile(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.RulesPath, cfg.RulesPath, SourceConfig, path)
		apply(&out.ReportDir, cfg.ReportDir, SourceConfig, path)
		apply(&out.BotToken, cfg.Bot.Token, SourceConfig, path)
	}

	applyEnv(&out.DBPath, "ACCORD_DB")
	applyEnv(&out.RulesPath, "ACCORD_RULES")
	applyEnv(&out.ReportDir, "ACCORD_REPORTS")
	applyEnv(&out.BotToken, "TELEGRAM_BOT_TOKEN")
	applyEnv(&out.BotToken, "ACCORD_BOT_TOKEN")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.RulesPath, opts.CLIRulesPath, SourceCLI, "--rules")
	apply(&out.ReportDir, opts.CLIReportDir, SourceCLI, "--reports")
	apply(&out.BotToken, opts.CLIBotToken, SourceCLI, "--token")

	out.DBPath.Value = expandUserPath(out.DBPath.Value)
	out.RulesPath.Value = expandUserPath(out.RulesPath.Value)
	out.ReportDir.Value = expandUserPath(out.ReportDir.Value)

	return out, nil
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadFile(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
