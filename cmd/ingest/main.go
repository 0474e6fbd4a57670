package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/app/di"
	dailyadapters "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/adapters"
	dailyusecase "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/usecase"
	quoteadapters "github.com/Yili-code/FinMind-Lab/internal/feature/quote/adapters"
	"github.com/Yili-code/FinMind-Lab/internal/platform/config"
	"github.com/Yili-code/FinMind-Lab/internal/platform/logger"
	"github.com/Yili-code/FinMind-Lab/internal/shared/ratelimiter"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

const monthLayout = "2006-01"

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	now := time.Now()
	tickersFlag := flag.String("tickers", "", "comma separated tickers (default: all codes in stock_basics)")
	fromFlag := flag.String("from", now.AddDate(0, -5, 0).Format(monthLayout), "first month (YYYY-MM)")
	toFlag := flag.String("to", now.Format(monthLayout), "last month (YYYY-MM)")
	reportFlag := flag.String("report", "", "write a JSON report to this path")
	flag.Parse()

	from, err := time.Parse(monthLayout, *fromFlag)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	to, err := time.Parse(monthLayout, *toFlag)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := di.OpenDatabase(cfg.DB)
	if db == nil {
		return fmt.Errorf("ingest requires a database")
	}
	defer di.CloseDatabase(db)
	c, rdb := di.NewCache(ctx, cfg.Cache)
	if rdb != nil {
		defer rdb.Close()
	}

	tickers := splitTickers(*tickersFlag)
	if len(tickers) == 0 {
		basics, err := quoteadapters.NewQuoteRepository(db).List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load stock codes: %w", err)
		}
		for _, b := range basics {
			tickers = append(tickers, b.StockCode)
		}
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers: pass -tickers or populate stock_basics")
	}

	uc := dailyusecase.NewIngestUsecase(
		di.NewTWSE(cfg.TWSE),
		dailyadapters.NewDailyTradeRepository(db),
		tiered.NewFetcher(c, nil, false),
		ratelimiter.NewRateLimiter(cfg.TWSE.RequestsPerMinute, time.Minute),
	)

	slog.Info("ingest started", "tickers", len(tickers), "from", *fromFlag, "to", *toFlag)
	reports, err := uc.IngestAll(ctx, tickers, from, to)
	if *reportFlag != "" {
		if werr := writeReport(*reportFlag, reports); werr != nil {
			slog.Error("failed to write report", "path", *reportFlag, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
		}
	}
	slog.Info("ingest ok", "tickers", len(reports), "failed", failed)
	return nil
}

func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func writeReport(path string, reports []dailyusecase.IngestReport) error {
	b, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
