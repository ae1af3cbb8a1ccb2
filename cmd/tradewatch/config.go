package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/tradewatch/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	account := fs.String("account", "", "Set the account to mirror")
	league := fs.String("league", "", "Set the trade league")
	proxy := fs.String("proxy", "", "Set the authenticating proxy base URL")
	reference := fs.String("reference", "", "Set the reference currency for estimates")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()

	changed := false
	if *account != "" {
		cfg.Account = *account
		changed = true
	}
	if *league != "" {
		cfg.League = *league
		changed = true
	}
	if *proxy != "" {
		cfg.ProxyURL = *proxy
		changed = true
	}
	if *reference != "" {
		cfg.ReferenceCurrency = *reference
		changed = true
	}

	if changed {
		if err := cfg.Save(); err != nil {
			fatal("failed to save config: %v", err)
		}
		fmt.Println(successStyle.Render("Config saved to " + config.ConfigPath()))
	}

	fmt.Println(titleStyle.Render("tradewatch configuration"))
	fmt.Printf("  account             %s\n", orUnset(cfg.Account))
	fmt.Printf("  league              %s\n", cfg.League)
	fmt.Printf("  realm               %s\n", cfg.Realm)
	fmt.Printf("  proxy URL           %s\n", cfg.ProxyURL)
	fmt.Printf("  reference currency  %s\n", cfg.ReferenceCurrency)
	fmt.Printf("  database            %s\n", cfg.DBPath)
}

func orUnset(v string) string {
	if v == "" {
		return mutedStyle.Render("(unset)")
	}
	return v
}
