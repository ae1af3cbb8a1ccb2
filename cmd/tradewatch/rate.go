package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

func runRate() {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	if fs.NArg() != 2 {
		fatal("usage: tradewatch rate <want> <have>  (e.g. tradewatch rate exalted divine)")
	}
	want, have := fs.Arg(0), fs.Arg(1)

	cfg := loadConfig()
	st := openStore(cfg)
	defer st.Close()

	parts := buildComponents(cfg, st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rate, err := parts.converter.Rate(ctx, want, have)
	if err != nil {
		fatal("failed to fetch rate %s/%s: %v", want, have, err)
	}

	fmt.Printf("1 %s = %s\n", have, priceStyle.Render(fmt.Sprintf("%.2f %s", rate, want)))
}
