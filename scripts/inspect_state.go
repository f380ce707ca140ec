package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// inspect_state prints the persisted cart and exchange rate for the
// configured storage driver (file or postgres).
func main() {
	reset := flag.Bool("clear", false, "delete the persisted state after printing it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	var store storage.Store
	switch cfg.Storage.Driver {
	case config.StorageFile:
		store = storage.NewFileStore(cfg.Storage.File, logger)
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = storage.NewPostgresStore(pool, logger)
	default:
		fmt.Fprintf(os.Stderr, "driver %q is not supported by this script\n", cfg.Storage.Driver)
		os.Exit(1)
	}

	var lines []model.CartLine
	if found, err := storage.LoadJSON(ctx, store, storage.CartKey, &lines); err != nil {
		fmt.Fprintf(os.Stderr, "cart: %v\n", err)
	} else if !found {
		fmt.Println("cart: not persisted")
	} else {
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Subtotal())
			fmt.Printf("  %4d x %-30s $%s\n", l.Quantity, l.Name, l.Price.StringFixed(2))
		}
		fmt.Printf("cart: %d lines, total $%s\n", len(lines), total.StringFixed(2))
	}

	var rate model.ExchangeRate
	if found, err := storage.LoadJSON(ctx, store, storage.RateKey, &rate); err != nil {
		fmt.Fprintf(os.Stderr, "rate: %v\n", err)
	} else if !found {
		fmt.Println("rate: not persisted")
	} else {
		out, _ := json.Marshal(rate)
		fmt.Printf("rate: %s\n", out)
	}

	if *reset {
		for _, key := range []string{storage.CartKey, storage.RateKey} {
			if err := store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "failed to delete %s: %v\n", key, err)
				os.Exit(1)
			}
		}
		fmt.Println("persisted state cleared")
	}
}
