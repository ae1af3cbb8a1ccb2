package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/abelbrown/tradewatch/internal/match"
	"github.com/abelbrown/tradewatch/internal/store"
)

// wireOffer is the JSON shape the chat collaborator emits per offer.
type wireOffer struct {
	ItemName string `json:"itemName"`
	Price    string `json:"price"`
	StashTab string `json:"stashTab"`
	Position struct {
		Left int `json:"left"`
		Top  int `json:"top"`
	} `json:"position"`
}

func runOffers() {
	fs := flag.NewFlagSet("offers", flag.ExitOnError)
	accountFlag := fs.String("account", "", "Account whose mirror to match against (defaults to configured account)")
	file := fs.String("file", "-", "Offers JSON file ('-' for stdin)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	account := requireAccount(*accountFlag, cfg)

	st := openStore(cfg)
	defer st.Close()

	parts := buildComponents(cfg, st)
	mirror := store.NewMirror(st, account)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	offers, err := readOffers(*file)
	if err != nil {
		fatal("failed to read offers: %v", err)
	}
	if len(offers) == 0 {
		fmt.Println(mutedStyle.Render("no offers to match"))
		return
	}

	ids, err := mirror.KnownIDs()
	if err != nil {
		fatal("failed to read mirror: %v", err)
	}
	items, err := parts.fetcher.FetchAll(ctx, ids, false)
	if err != nil {
		fatal("failed to load item details: %v", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Matching %d offers against %d items", len(offers), len(items))))

	for _, o := range offers {
		found := match.FindItem(items, match.Offer{
			ItemName: o.ItemName,
			StashTab: o.StashTab,
			X:        o.Position.Left,
			Y:        o.Position.Top,
		})
		if found == nil {
			fmt.Printf("  %-40s %s\n", o.ItemName, errorStyle.Render("no match"))
			continue
		}
		fmt.Printf("  %-40s %s %s\n",
			found.Name(),
			priceStyle.Render(formatPrice(found.Listing.Price)),
			mutedStyle.Render(fmt.Sprintf("%s (%d,%d), offered %s",
				found.Listing.Stash.Name, found.Listing.Stash.X, found.Listing.Stash.Y, o.Price)))
	}
}

func readOffers(path string) ([]wireOffer, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var offers []wireOffer
	if err := json.NewDecoder(r).Decode(&offers); err != nil {
		return nil, err
	}
	return offers, nil
}
