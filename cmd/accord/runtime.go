package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/config"
	"github.com/scentstack/accord/internal/rules"
)

// cmdFlags holds the global flags shared by every subcommand plus the
// positional arguments left after stripping them.
type cmdFlags struct {
	configPath string
	dbPath     string
	rulesPath  string
	reportDir  string
	token      string
	limit      int
	save       bool
	rest       []string
}

func parseFlags(args []string) (cmdFlags, error) {
	f := cmdFlags{limit: 10}
	i := 0
	next := func(name string) (string, error) {
		i++
		if i >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i], nil
	}
	for ; i < len(args); i++ {
		arg := args[i]
		name, val, hasVal := strings.Cut(arg, "=")
		take := func(flag string) (string, error) {
			if hasVal {
				return val, nil
			}
			return next(flag)
		}
		switch name {
		case "--config":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			f.configPath = v
		case "--db":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			f.dbPath = v
		case "--rules":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			f.rulesPath = v
		case "--reports":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			f.reportDir = v
		case "--token":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			f.token = v
		case "--limit":
			v, err := take(name)
			if err != nil {
				return f, err
			}
			if _, err := fmt.Sscanf(v, "%d", &f.limit); err != nil {
				return f, fmt.Errorf("--limit: %q is not a number", v)
			}
		case "--save":
			f.save = true
		default:
			if strings.HasPrefix(arg, "--") {
				return f, fmt.Errorf("unknown flag: %s", arg)
			}
			f.rest = append(f.rest, arg)
		}
	}
	return f, nil
}

// runtime bundles the resolved configuration, open catalog and rule table
// that most subcommands need.
type runtime struct {
	cfg   config.Resolved
	store *catalog.Store
	table rules.Table
}

func openRuntime(f cmdFlags) (*runtime, error) {
	cfg, err := config.Resolve(config.ResolveOptions{
		ConfigPath:   f.configPath,
		CLIDBPath:    f.dbPath,
		CLIRulesPath: f.rulesPath,
		CLIBotToken:  f.token,
		CLIReportDir: f.reportDir,
	})
	if err != nil {
		return nil, err
	}

	table, warnings, err := rules.Load(cfg.RulesPath.Value)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	store, err := catalog.Open(cfg.DBPath.Value)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	return &runtime{cfg: cfg, store: store, table: table}, nil
}

func (rt *runtime) Close() {
	rt.store.Close()
}
