package main

import (
	"fmt"
	"strings"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
)

func printResults(results []catalog.Record) {
	for i, r := range results {
		line := fmt.Sprintf("%2d. %s — %s", i+1, r.DisplayName(), r.BrandName())
		if a := strings.TrimSpace(r.Accords()); a != "" {
			line += fmt.Sprintf(" [%s]", a)
		}
		fmt.Println(line)
	}
}

func printSelection(selection []catalog.Record) {
	for _, r := range selection {
		fmt.Printf("  • %s — %s\n", r.DisplayName(), r.BrandName())
	}
}

func printVerdict(v layering.Verdict) {
	fmt.Println()
	fmt.Println(strings.Repeat("─", 44))
	if v.Curated {
		fmt.Printf("Совместимость: %d%% (проверенный микс)\n", v.Compatibility)
	} else {
		fmt.Printf("Совместимость: %d%%\n", v.Compatibility)
	}
	fmt.Printf("Вайб: %s\n", v.Vibe)
	if len(v.Risks) > 0 {
		fmt.Println("Риски:")
		for _, r := range v.Risks {
			fmt.Printf("  • %s\n", r)
		}
	}
	if len(v.Tips) > 0 {
		fmt.Println("Советы:")
		for _, t := range v.Tips {
			fmt.Printf("  • %s\n", t)
		}
	}
	fmt.Println(strings.Repeat("─", 44))
}
