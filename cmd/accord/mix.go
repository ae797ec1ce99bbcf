package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
)

// runMix drives the interactive layering session: search the catalog, pick
// fragrances by number, analyze once 2-3 are selected.
func runMix(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	count, err := rt.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("🌸 Лееринг-ассистент (%d ароматов в каталоге)\n", count)
	fmt.Println("Подберите 2-3 аромата для совместного нанесения.")
	fmt.Println("Команды: 'готово' — анализ, 'выход' — завершить.")

	var selection []catalog.Record
	done := false
	for !done && len(selection) < layering.MaxSelection {
		fmt.Printf("\nАромат %d — поисковый запрос: ", len(selection)+1)
		line, ok := readLine(in)
		if !ok {
			break
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case "выход", "quit", "exit":
			fmt.Println("До встречи!")
			return nil
		case "готово", "done":
			if len(selection) >= layering.MinSelection {
				done = true
				continue
			}
			fmt.Printf("Нужно минимум %d аромата.\n", layering.MinSelection)
			continue
		}

		rec, err := pickFromSearch(ctx, rt, in, line, f.limit)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		selection = append(selection, *rec)
		fmt.Printf("Добавлен: %s — %s\n", rec.DisplayName(), rec.BrandName())
		if len(selection) >= layering.MinSelection && len(selection) < layering.MaxSelection {
			fmt.Println("Можно добавить ещё один или ввести 'готово'.")
		}
	}

	if len(selection) < layering.MinSelection {
		fmt.Println("Недостаточно ароматов для анализа.")
		return nil
	}

	verdict, err := layering.Evaluate(toFragrances(selection), rt.table)
	if err != nil {
		return err
	}

	fmt.Println("\nЛееринг:")
	printSelection(selection)
	printVerdict(verdict)

	fmt.Print("Сохранить отчёт? (y/n): ")
	if answer, _ := readLine(in); answer == "y" || answer == "д" || answer == "да" {
		return saveReport(rt, selection, verdict)
	}
	return nil
}

// pickFromSearch shows search results and reads a 1-based pick. Returns nil
// when nothing matched or the user cancelled with 0.
func pickFromSearch(ctx context.Context, rt *runtime, in *bufio.Scanner, query string, limit int) (*catalog.Record, error) {
	results, err := rt.store.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		fmt.Printf("Ничего не найдено по запросу %q.\n", query)
		return nil, nil
	}

	printResults(results)
	for {
		fmt.Print("Номер (0 — новый поиск): ")
		line, ok := readLine(in)
		if !ok {
			return nil, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 || n > len(results) {
			fmt.Printf("Введите число от 0 до %d.\n", len(results))
			continue
		}
		if n == 0 {
			return nil, nil
		}
		return &results[n-1], nil
	}
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}
