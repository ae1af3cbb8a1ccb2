package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/tradewatch/internal/job"
	"github.com/abelbrown/tradewatch/internal/jobs"
	"github.com/abelbrown/tradewatch/internal/match"
	"github.com/abelbrown/tradewatch/internal/store"
	"github.com/abelbrown/tradewatch/internal/trade"
)

func runRefresh() {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	accountFlag := fs.String("account", "", "Account whose mirror to refresh (defaults to configured account)")
	byTab := fs.Bool("tabs", false, "Group the refreshed items by stash tab")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	account := requireAccount(*accountFlag, cfg)

	st := openStore(cfg)
	defer st.Close()

	parts := buildComponents(cfg, st)
	mirror := store.NewMirror(st, account)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ids, err := mirror.KnownIDs()
	if err != nil {
		fatal("failed to read mirror: %v", err)
	}
	if len(ids) == 0 {
		fatal("no mirrored items for %s; run 'tradewatch sync' first", account)
	}

	items, err := parts.fetcher.FetchAll(ctx, ids, false)
	if err != nil {
		fatal("failed to load item details: %v", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Refreshing %d items", len(items))))

	j := jobs.NewRefreshAll(parts.fetcher, items)
	progress := make(chan job.Progress[[]trade.Item])
	j.OnStep = func(p job.Progress[[]trade.Item]) {
		progress <- p
	}

	runner := job.NewRunner()
	var g errgroup.Group
	var refreshed []trade.Item
	g.Go(func() error {
		defer close(progress)
		var err error
		refreshed, err = job.Run(runner, ctx, j)
		return err
	})

	for p := range progress {
		fmt.Printf("\r%s", mutedStyle.Render(fmt.Sprintf("refreshed %d/%d items", p.Current, p.Total)))
	}
	fmt.Println()

	if err := g.Wait(); err != nil {
		fatal("%s", j.FailureMessage(err))
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Refreshed %d items", len(refreshed))))

	if *byTab {
		printStashTabs(refreshed)
	}
}

func printStashTabs(items []trade.Item) {
	tabs := match.StashTabs(items)
	for name, tabItems := range tabs {
		fmt.Println(titleStyle.Render(fmt.Sprintf("\n%s (%d)", name, len(tabItems))))
		for _, item := range tabItems {
			fmt.Printf("  %-40s %s %s\n",
				item.Name(),
				priceStyle.Render(formatPrice(item.Listing.Price)),
				mutedStyle.Render(fmt.Sprintf("(%d,%d)", item.Listing.Stash.X, item.Listing.Stash.Y)))
		}
	}
}
