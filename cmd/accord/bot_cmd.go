package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scentstack/accord/internal/bot"
)

func runBot(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	rt, err := openRuntime(f)
	if err != nil {
		return err
	}
	defer rt.Close()

	token := rt.cfg.BotToken.Value
	if token == "" {
		return fmt.Errorf("no bot token: set TELEGRAM_BOT_TOKEN, bot.token in the config file, or --token")
	}

	b, err := bot.New(bot.Config{
		Token:     token,
		Catalog:   rt.store,
		Table:     rt.table,
		ReportDir: rt.cfg.ReportDir.Value,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := rt.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Bot running with %d fragrances in catalog (token from %s). Ctrl+C to stop.\n",
		count, rt.cfg.BotToken.Source)

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Println("Bot stopped.")
	return nil
}
