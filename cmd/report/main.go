package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/amtamaddon/analytics.simlane.ai/internal/analytics"
	"github.com/amtamaddon/analytics.simlane.ai/internal/config"
	"github.com/amtamaddon/analytics.simlane.ai/internal/dataset"
	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/logging"
	"github.com/amtamaddon/analytics.simlane.ai/internal/report"
)

func main() {
	var (
		input   = flag.String("input", "data/members.csv", "Path to a members CSV or Excel file")
		groupBy = flag.String("group-by", "", "Optional breakdown to print: segment, risk_category, or group_id")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "report")

	members, err := loadMembers(*input, cfg)
	if err != nil {
		logger.Error("failed to load members", "error", err, "path", *input)
		os.Exit(1)
	}
	if len(members) == 0 {
		logger.Error("member table is empty", "path", *input)
		os.Exit(1)
	}

	summary := report.BuildExecutiveSummary(members, time.Now())
	fmt.Print(summary.Render())

	if *groupBy != "" {
		if err := printBreakdown(members, analytics.GroupKey(*groupBy)); err != nil {
			logger.Error("breakdown failed", "error", err, "key", *groupBy)
			os.Exit(1)
		}
	}
}

func loadMembers(path string, cfg config.Config) ([]domain.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	codec := dataset.NewCodec(cfg.Risk)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return codec.DecodeExcel(f)
	default:
		return codec.DecodeCSV(f)
	}
}

func printBreakdown(members []domain.Member, key analytics.GroupKey) error {
	stats, err := analytics.GroupBy(members, key)
	if err != nil {
		return err
	}

	fmt.Printf("\nBreakdown by %s\n", key)
	fmt.Printf("  %-14s %8s %10s %10s %10s\n", "Key", "Members", "Avg LTV", "Avg Risk", "At-Risk %")
	for _, s := range stats {
		fmt.Printf("  %-14s %8d %10.0f %10.3f %9.1f%%\n",
			s.Key, s.Members, s.AvgLifetimeValue, s.AvgRiskScore, s.AtRiskRate*100)
	}
	return nil
}
