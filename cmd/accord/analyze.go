package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
	"github.com/scentstack/accord/internal/report"
)

func runAnalyze(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.rest) < layering.MinSelection || len(f.rest) > layering.MaxSelection {
		return fmt.Errorf("usage: accord analyze <name> <name> [name]")
	}

	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	selection := make([]catalog.Record, 0, len(f.rest))
	for _, name := range f.rest {
		rec, err := rt.store.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if rec == nil {
			// Not in the catalog: analyze the name as-is so curated presets
			// can still match.
			fmt.Fprintf(os.Stderr, "Warning: %q not found in catalog, using the name as given\n", name)
			rec = &catalog.Record{Name: name, Brand: catalog.DeriveBrand(name)}
		}
		selection = append(selection, *rec)
	}

	verdict, err := layering.Evaluate(toFragrances(selection), rt.table)
	if err != nil {
		if errors.Is(err, layering.ErrInsufficientSelection) {
			return fmt.Errorf("at least %d fragrances are required", layering.MinSelection)
		}
		return err
	}

	fmt.Println("Лееринг:")
	printSelection(selection)
	printVerdict(verdict)

	if f.save {
		return saveReport(rt, selection, verdict)
	}
	return nil
}

func runPresets(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Println("Готовые миксы:")
	for i, p := range rt.table.Presets {
		fmt.Printf("%2d. %s — %d%%\n", i+1, p.Label(), p.Compatibility)
		fmt.Printf("    %s\n", p.Vibe)
	}
	return nil
}

func saveReport(rt *runtime, selection []catalog.Record, verdict layering.Verdict) error {
	dir := rt.cfg.ReportDir.Value
	path, err := report.New(selection, verdict).Save(dir)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	fmt.Printf("Report saved to %s\n", path)
	return nil
}

func toFragrances(records []catalog.Record) []layering.Fragrance {
	out := make([]layering.Fragrance, len(records))
	for i := range records {
		out[i] = records[i]
	}
	return out
}
