package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/tradewatch/internal/config"
	"github.com/abelbrown/tradewatch/internal/currency"
	"github.com/abelbrown/tradewatch/internal/estimate"
	"github.com/abelbrown/tradewatch/internal/mods"
	"github.com/abelbrown/tradewatch/internal/ratelimit"
	"github.com/abelbrown/tradewatch/internal/store"
	"github.com/abelbrown/tradewatch/internal/trade"
)

// fatal prints a styled error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// loadConfig loads configuration or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	return cfg
}

// requireAccount resolves the account from the flag or config, or
// fatals with a pointer to the config command.
func requireAccount(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Account != "" {
		return cfg.Account
	}
	fatal("no account configured; run 'tradewatch config -account <name>' or set TRADEWATCH_ACCOUNT")
	return ""
}

// openStore opens the mirror database or fatals.
func openStore(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fatal("failed to open database %s: %v", cfg.DBPath, err)
	}
	return st
}

// components is the wired set of collaborators the commands share.
type components struct {
	client    *trade.Client
	fetcher   *trade.CachedFetcher
	converter *currency.Converter
	estimator *estimate.Engine
}

// buildComponents wires the client stack against one store.
func buildComponents(cfg *config.Config, st *store.Store) *components {
	governor := ratelimit.NewGovernor()
	client := trade.NewClient(cfg.ProxyURL, cfg.League, cfg.Realm, governor)
	fetcher := trade.NewCachedFetcher(client, st)
	converter := currency.NewConverter(client, st)
	estimator := estimate.NewEngine(client, fetcher, converter, mods.Default(), st, cfg.ReferenceCurrency)

	return &components{
		client:    client,
		fetcher:   fetcher,
		converter: converter,
		estimator: estimator,
	}
}

// formatPrice renders an amount/currency pair for display.
func formatPrice(p trade.Price) string {
	return fmt.Sprintf("%.1f %s", p.Amount, p.Currency)
}
