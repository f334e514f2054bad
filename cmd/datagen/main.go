package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/dataset"
	"github.com/amtamaddon/analytics.simlane.ai/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		members        = flag.Int("members", cfg.NumMembers, "number of members to generate")
		groups         = flag.Int("groups", cfg.NumGroups, "number of employer groups to spread members across")
		enrollmentDays = flag.Int("enrollment-days", cfg.EnrollmentDays, "maximum member tenure in days")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "data", "directory to write members.csv and members.json")
		writeStdout    = flag.Bool("stdout", false, "write the member table as CSV to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumMembers:     *members,
		NumGroups:      *groups,
		EnrollmentDays: *enrollmentDays,
		Seed:           *seed,
	}
	if genCfg.NumMembers <= 0 || genCfg.NumGroups <= 0 {
		fmt.Fprintln(os.Stderr, "members and groups must be positive")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	table, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := dataset.EncodeCSV(os.Stdout, table); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write members to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(table, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d members across %d groups into %s\n", len(table), genCfg.NumGroups, *outputDir)
}
