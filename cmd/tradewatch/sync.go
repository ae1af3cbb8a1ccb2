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
	"github.com/abelbrown/tradewatch/internal/store"
	"github.com/abelbrown/tradewatch/internal/sync"
)

func runSync() {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	accountFlag := fs.String("account", "", "Account to sync (defaults to configured account)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	account := requireAccount(*accountFlag, cfg)

	st := openStore(cfg)
	defer st.Close()

	parts := buildComponents(cfg, st)
	mirror := store.NewMirror(st, account)
	engine := sync.NewEngine(parts.client, parts.fetcher, mirror)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Syncing %s", account)))

	j := jobs.NewSyncAccount(engine)
	progress := make(chan job.Progress[[]string])
	j.OnStep = func(p job.Progress[[]string]) {
		progress <- p
	}

	runner := job.NewRunner()
	var g errgroup.Group
	var ids []string
	g.Go(func() error {
		defer close(progress)
		var err error
		ids, err = job.Run(runner, ctx, j)
		return err
	})

	for p := range progress {
		fmt.Printf("\r%s", mutedStyle.Render(fmt.Sprintf("mirrored %d/%d listings", p.Current, p.Total)))
	}
	fmt.Println()

	if err := g.Wait(); err != nil {
		fatal("%s", j.FailureMessage(err))
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Mirror current: %d listings", len(ids))))
}
