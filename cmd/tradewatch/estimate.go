package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/tradewatch/internal/estimate"
	"github.com/abelbrown/tradewatch/internal/job"
	"github.com/abelbrown/tradewatch/internal/jobs"
	"github.com/abelbrown/tradewatch/internal/store"
	"github.com/abelbrown/tradewatch/internal/trade"
)

func runEstimate() {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	accountFlag := fs.String("account", "", "Account whose mirror to estimate (defaults to configured account)")
	all := fs.Bool("all", false, "Estimate every mirrored item")
	recheck := fs.Bool("recheck", false, "Re-estimate items that already have a cached estimate")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()

	parts := buildComponents(cfg, st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *all {
		account := requireAccount(*accountFlag, cfg)
		estimateAll(ctx, parts, st, account, !*recheck)
		return
	}

	if fs.NArg() != 1 {
		fatal("usage: tradewatch estimate <item-id> | tradewatch estimate --all")
	}
	estimateOne(ctx, parts, fs.Arg(0))
}

func estimateOne(ctx context.Context, parts *components, id string) {
	items, err := parts.fetcher.FetchAll(ctx, []string{id}, false)
	if err != nil {
		fatal("failed to fetch item %s: %v", id, err)
	}
	if len(items) == 0 {
		fatal("item %s no longer exists upstream", id)
	}
	item := &items[0]

	result, err := parts.estimator.Estimate(ctx, item)
	if err != nil {
		fatal("failed to estimate %s: %v", item.Name(), err)
	}

	fmt.Println(titleStyle.Render(item.Name()))
	fmt.Printf("  listed at  %s\n", formatPrice(item.Listing.Price))
	fmt.Printf("  estimated  %s %s\n",
		priceStyle.Render(formatPrice(result.Price)),
		mutedStyle.Render(fmt.Sprintf("± %s", formatPrice(result.StdDev))))
}

func estimateAll(ctx context.Context, parts *components, st *store.Store, account string, skipChecked bool) {
	mirror := store.NewMirror(st, account)
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

	fmt.Println(titleStyle.Render(fmt.Sprintf("Estimating %d items", len(items))))

	j := jobs.NewPriceCheckAll(parts.estimator, st, items, skipChecked)
	progress := make(chan job.Progress[estimate.Estimate])
	j.OnStep = func(p job.Progress[estimate.Estimate]) {
		progress <- p
	}

	runner := job.NewRunner()
	var g errgroup.Group
	g.Go(func() error {
		defer close(progress)
		_, err := job.Run(runner, ctx, j)
		return err
	})

	for p := range progress {
		item := items[p.Current-1]
		printEstimateLine(&item, p.Data, p.Current, p.Total)
	}

	if err := g.Wait(); err != nil {
		fatal("%s", j.FailureMessage(err))
	}
	fmt.Println(successStyle.Render("Estimates complete"))
}

func printEstimateLine(item *trade.Item, est estimate.Estimate, current, total int) {
	fmt.Printf("%s %-40s %s %s\n",
		mutedStyle.Render(fmt.Sprintf("[%d/%d]", current, total)),
		item.Name(),
		priceStyle.Render(formatPrice(est.Price)),
		mutedStyle.Render(fmt.Sprintf("± %s", formatPrice(est.StdDev))))
}
