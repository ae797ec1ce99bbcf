package main

import (
	"context"
	"fmt"
	"strings"
)

func runImport(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.rest) == 0 {
		return fmt.Errorf("usage: accord import <file.csv> [file.csv ...]")
	}

	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	for _, path := range f.rest {
		res, err := rt.store.ImportCSV(ctx, path)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		fmt.Printf("%s: %d rows, %d imported, %d duplicates, %d skipped\n",
			path, res.Rows, res.Imported, res.Duplicates, res.Skipped)
	}

	total, err := rt.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog now holds %d fragrances.\n", total)
	return nil
}

func runSearch(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(f.rest, " "))
	if query == "" {
		return fmt.Errorf("usage: accord search <query>")
	}

	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.store.Search(context.Background(), query, f.limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No fragrances match %q.\n", query)
		return nil
	}
	printResults(results)
	return nil
}

func runStats(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	st, err := rt.store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("Catalog statistics")
	fmt.Printf("  Database:   %s (%s)\n", rt.cfg.DBPath.Value, rt.cfg.DBPath.Source)
	fmt.Printf("  Fragrances: %d\n", st.Records)
	fmt.Printf("  Brands:     %d\n", st.Brands)
	fmt.Printf("  Size:       %.1f KB\n", float64(st.DBSizeBytes)/1024)
	if rt.cfg.RulesPath.Value != "" {
		fmt.Printf("  Rules:      %s (%s)\n", rt.cfg.RulesPath.Value, rt.cfg.RulesPath.Source)
	} else {
		fmt.Printf("  Rules:      built-in\n")
	}
	fmt.Printf("  Presets:    %d curated mixes\n", len(rt.table.Presets))
	return nil
}
