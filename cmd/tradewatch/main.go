// Command tradewatch is the CLI for the tradewatch trade companion.
//
// Usage:
//
//	tradewatch                  Show help
//	tradewatch sync             Mirror the account's listings locally
//	tradewatch estimate <id>    Estimate one item's price
//	tradewatch estimate --all   Estimate every mirrored item
//	tradewatch refresh          Re-fetch all mirrored item details
//	tradewatch rate <want> <have>  Show an exchange rate
//	tradewatch offers           Match incoming trade offers against the mirror
//	tradewatch config           Show or update configuration
package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/tradewatch/internal/logging"
)

const usage = `tradewatch — trade marketplace companion CLI

Usage:
  tradewatch <command> [flags]

Commands:
  sync        Mirror the configured account's listings locally
  estimate    Estimate item prices from comparable listings
  refresh     Re-fetch all mirrored item details (prices, stash moves)
  rate        Show the exchange rate between two currencies
  offers      Match incoming trade offers against the mirror
  config      Show or update configuration

Environment:
  TRADEWATCH_ACCOUNT    Account to mirror (overrides config file)
  TRADEWATCH_LEAGUE     Trade league (default: Standard)
  TRADEWATCH_PROXY_URL  Authenticating proxy base URL

Run 'tradewatch <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "tradewatch: logging init: %v\n", err)
	}
	defer logging.Close()

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "sync":
		runSync()
	case "estimate":
		runEstimate()
	case "refresh":
		runRefresh()
	case "rate":
		runRate()
	case "offers":
		runOffers()
	case "config":
		runConfig()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "tradewatch: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
