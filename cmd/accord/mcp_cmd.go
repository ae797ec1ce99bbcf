package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/scentstack/accord/internal/mcp"
)

func runMCP(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	s := mcp.NewServer(mcp.ServerConfig{
		Catalog: rt.store,
		Table:   rt.table,
		Version: version,
	})

	fmt.Fprintf(os.Stderr, "Accord MCP server on stdio (db: %s)\n", rt.cfg.DBPath.Value)
	return server.ServeStdio(s)
}
