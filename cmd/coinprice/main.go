// Command coinprice looks up one coin price through the host HTTP
// session layer and prints it, caching the last good quote locally.
//
// On WebAssembly builds the request runs over the raw host imports; on
// native builds a loopback driver executes it directly.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hostfns/hosthttp/internal/coins"
	"github.com/hostfns/hosthttp/internal/config"
	"github.com/hostfns/hosthttp/internal/logger"
	"github.com/hostfns/hosthttp/internal/pricestore"
	"github.com/hostfns/hosthttp/request"
	"github.com/hostfns/hosthttp/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coinprice: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	var store *pricestore.Store
	if store, err = pricestore.Open(cfg.CachePath, cfg.CacheTTL); err != nil {
		log.Warn("price cache unavailable", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		cfg.APIBaseURL, cfg.CoinID, cfg.Currency)

	quote, err := fetch(url, cfg, log)
	if err != nil {
		log.Warn("live fetch failed", zap.Error(err))
		if store != nil {
			if cached, ok, cerr := store.Get(cfg.CoinID, cfg.Currency); cerr == nil && ok {
				fmt.Printf("%s price (cached): $%.2f\n", cached.ID, cached.Price)
				return nil
			}
		}
		return err
	}

	if store != nil {
		if err := store.Put(quote); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}

	full, err := json.Marshal(quote.Scaled())
	if err != nil {
		return err
	}
	fmt.Printf("%s price: $%.2f\n", quote.ID, quote.Price)
	fmt.Printf("Full data: %s\n", full)
	return nil
}

func fetch(url string, cfg *config.Config, log *zap.Logger) (coins.Quote, error) {
	status, body, err := session.Do(url, request.NewFetchOptions("GET"),
		session.WithDriver(defaultDriver()),
		session.WithLogger(log))
	if err != nil {
		return coins.Quote{}, err
	}
	log.Debug("price response", zap.Int("status", status), zap.Int("bytes", len(body)))
	return coins.Parse(body, cfg.CoinID, cfg.Currency)
}
