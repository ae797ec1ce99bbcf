package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "presets":
		err = runPresets(os.Args[2:])
	case "mix":
		err = runMix(os.Args[2:])
	case "bot":
		err = runBot(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("accord %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`accord %s — fragrance layering assistant

Usage:
  accord <command> [arguments]

Commands:
  import <file.csv>     Import fragrances into the catalog
  search <query>        Search the catalog by name, brand, accord or note
  analyze <name> <name> [name]
                        Score layering compatibility for 2-3 fragrances
  mix                   Interactive layering session
  presets               List curated layering presets
  bot                   Run the Telegram bot (long polling)
  mcp                   Run the MCP server on stdio
  stats                 Show catalog statistics
  version               Print version

Flags (all commands):
  --config <path>       Config file (default: ~/.accord/config.yaml)
  --db <path>           Catalog database path
  --rules <path>        Rule table YAML path (missing file = built-in rules)
  --reports <dir>       Directory for saved analysis reports

Bot Flags:
  --token <token>       Telegram bot token (or TELEGRAM_BOT_TOKEN env)

Flags:
  -h, --help            Show this help message
  -v, --version         Print version
`, version)
}
