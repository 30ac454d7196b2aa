package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"FolioSentinel/internal/archive"
	"FolioSentinel/internal/config"
	"FolioSentinel/internal/store"
)

const usage = `usage: archive <command> [flags]

commands:
  list                        list open positions
  add -symbol S -shares N -price P -date D [-note TEXT]
                              open a new position
  sell -id ID -price P -date D
                              archive a position as a realized trade
  delete -id ID               remove a position without archiving
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	var docs store.Store
	switch cfg.Store.Kind {
	case "rest":
		docs = store.NewRESTStore(cfg.Store.BaseURL, cfg.Store.Auth, cfg.Proxy)
	default:
		fs, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			log.Fatalf("[FATAL] init file store: %v", err)
		}
		docs = fs
	}

	archiver := archive.New(docs)
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		positions, err := archiver.ListPositions(ctx)
		if err != nil {
			log.Fatalf("[FATAL] list positions: %v", err)
		}
		ids := make([]string, 0, len(positions))
		for id := range positions {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			p := positions[id]
			fmt.Printf("%s  %-6s %10.4f @ %.2f  opened %s  %s\n",
				id, p.Symbol, p.Shares, p.CostPrice, p.OpenDate, p.Note)
		}
		if len(positions) == 0 {
			fmt.Println("no open positions")
		}

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		symbol := fs.String("symbol", "", "ticker symbol")
		shares := fs.Float64("shares", 0, "number of shares")
		price := fs.Float64("price", 0, "cost price per share")
		date := fs.String("date", "", "open date (YYYY-MM-DD or DD/MM/YYYY)")
		note := fs.String("note", "", "free-text rationale")
		fs.Parse(os.Args[2:])

		pos, err := archiver.AddPosition(ctx, *symbol, *shares, *price, *date, *note)
		if err != nil {
			log.Fatalf("[FATAL] add position: %v", err)
		}
		fmt.Printf("added %s: %s %.4f @ %.2f\n", pos.ID, pos.Symbol, pos.Shares, pos.CostPrice)

	case "sell":
		fs := flag.NewFlagSet("sell", flag.ExitOnError)
		id := fs.String("id", "", "position id")
		price := fs.Float64("price", 0, "sell price per share")
		date := fs.String("date", "", "sell date (YYYY-MM-DD or DD/MM/YYYY)")
		fs.Parse(os.Args[2:])

		trade, err := archiver.Archive(ctx, *id, *price, *date)
		if err != nil {
			log.Fatalf("[FATAL] archive position: %v", err)
		}
		fmt.Printf("archived %s: %.4f shares, P&L %+.2f, bucket %s\n",
			trade.Symbol, trade.Shares, trade.PL, trade.SellDate.QuarterBucket())

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.String("id", "", "position id")
		fs.Parse(os.Args[2:])

		if err := archiver.DeletePosition(ctx, *id); err != nil {
			log.Fatalf("[FATAL] delete position: %v", err)
		}
		fmt.Printf("deleted %s\n", *id)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
