// cmd/tools/catalog-publisher/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"festival-matcher/internal/catalog"
	"festival-matcher/internal/common/config"
	"festival-matcher/internal/common/database"
	"festival-matcher/internal/common/logger"
	"festival-matcher/internal/matching"
	"festival-matcher/pkg/refdata"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	publishCmd := flag.NewFlagSet("publish", flag.ExitOnError)
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)
	rankCmd := flag.NewFlagSet("rank", flag.ExitOnError)

	validatePath := validateCmd.String("path", "configs/catalog.json", "Path to catalog file")

	publishPath := publishCmd.String("path", "configs/catalog.json", "Path to catalog file")
	publishKey := publishCmd.String("key", "", "Redis key (defaults to catalog.redis_key from config)")

	versionKey := versionCmd.String("key", "", "Redis key (defaults to catalog.redis_key from config)")

	rankCatalog := rankCmd.String("catalog", "configs/catalog.json", "Path to catalog file")
	rankAnswers := rankCmd.String("answers", "", "Path to a JSON file with quiz answers")
	rankLimit := rankCmd.Int("limit", 5, "Number of matches to print")
	rankTables := rankCmd.String("tables", "", "Reference data file (defaults to built-in tables)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		stats, err := validateCatalog(ctx, *validatePath)
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		printStats(os.Stdout, stats)

	case "publish":
		publishCmd.Parse(os.Args[2:])
		rdb, key := connectRedis(*publishKey)
		defer rdb.Close()
		doc, err := publishCatalog(ctx, catalog.NewRedisSource(rdb.GetClient(), key), *publishPath)
		if err != nil {
			fmt.Printf("Error publishing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Published %d festivals (version %q) to %s\n", len(doc.Festivals), doc.Version, key)

	case "version":
		versionCmd.Parse(os.Args[2:])
		rdb, key := connectRedis(*versionKey)
		defer rdb.Close()
		v, err := catalog.NewRedisSource(rdb.GetClient(), key).Version(ctx)
		if err != nil {
			fmt.Printf("Error reading version: %v\n", err)
			os.Exit(1)
		}
		if v == "" {
			fmt.Printf("No versioned catalog published under %s\n", key)
			return
		}
		fmt.Println(v)

	case "rank":
		rankCmd.Parse(os.Args[2:])
		if *rankAnswers == "" {
			fmt.Println("Error: answers is required for rank.")
			rankCmd.Usage()
			os.Exit(1)
		}
		resp, err := rankOffline(ctx, *rankCatalog, *rankAnswers, *rankTables, *rankLimit)
		if err != nil {
			fmt.Printf("Error ranking: %v\n", err)
			os.Exit(1)
		}
		printMatches(os.Stdout, resp)

	case "help":
		fallthrough
	default:
		help()
	}
}

// validateCatalog loads the file the same way the worker manager does and
// returns the resulting snapshot stats.
func validateCatalog(ctx context.Context, path string) (catalog.Stats, error) {
	store := catalog.NewStore(catalog.NewFileSource(path), logger.NewNoOpLogger())
	snap, err := store.Refresh(ctx)
	if err != nil {
		return catalog.Stats{}, err
	}
	return snap.Stats, nil
}

type publisher interface {
	Publish(ctx context.Context, data []byte) (*catalog.Document, error)
}

func publishCatalog(ctx context.Context, dst publisher, path string) (*catalog.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return dst.Publish(ctx, data)
}

func rankOffline(ctx context.Context, catalogPath, answersPath, tablesPath string, limit int) (*matching.Response, error) {
	tables := refdata.Default()
	if tablesPath != "" {
		var err error
		if tables, err = refdata.LoadTables(tablesPath); err != nil {
			return nil, err
		}
	}

	doc, err := catalog.NewFileSource(catalogPath).Load(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(answersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	var answers matching.Answers
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}

	engine := matching.NewEngine(matching.Options{Tables: tables}, logger.NewNoOpLogger())
	return engine.Match(ctx, matching.Request{
		Candidates: doc.Festivals,
		Answers:    answers,
		Limit:      limit,
	})
}

func connectRedis(key string) (*database.RedisClient, string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if key == "" {
		key = cfg.Catalog.RedisKey
	}
	if cfg.Database.Redis.Address == "" {
		fmt.Println("Error: database.redis.address is not configured")
		os.Exit(1)
	}
	return database.NewRedis(cfg.Database.Redis), key
}

func printStats(w io.Writer, s catalog.Stats) {
	fmt.Fprintf(w, "Catalog validation passed. Found %d festivals", s.Count)
	if s.Dropped > 0 {
		fmt.Fprintf(w, " (%d dropped)", s.Dropped)
	}
	fmt.Fprintln(w, ".")
	fmt.Fprintf(w, "  genres:    %d\n", s.Genres)
	fmt.Fprintf(w, "  countries: %d\n", s.Countries)
	if s.Costs.HasCosts {
		fmt.Fprintf(w, "  cost:      %.0f - %.0f\n", s.Costs.CostMin, s.Costs.CostMax)
	}
}

func printMatches(w io.Writer, resp *matching.Response) {
	fmt.Fprintf(w, "%d scored, %d eligible\n", resp.CandidatesScored, resp.EligibleCount)
	for i, m := range resp.Matches {
		fmt.Fprintf(w, "%2d. %-30s %5.1f  %s\n", i+1, m.CandidateName, m.OverallScore, m.RecommendationTier)
		for _, in := range m.Insights {
			fmt.Fprintf(w, "      + %s\n", in)
		}
		for _, r := range m.RiskFactors {
			fmt.Fprintf(w, "      - %s\n", r)
		}
	}
}

func help() {
	fmt.Print(`
Usage: catalog-publisher <command> [flags]

Commands:
  validate  Validate a catalog file and print its stats
  publish   Validate a catalog file and publish it to Redis
  version   Print the catalog version currently published to Redis
  rank      Rank a catalog file against a quiz answers file
  help      Show this help message

Examples:
  catalog-publisher validate -path configs/catalog.json
  catalog-publisher publish -path configs/catalog.json -key catalog:festivals
  catalog-publisher version
  catalog-publisher rank -catalog configs/catalog.json -answers answers.json -limit 3

Use 'catalog-publisher <command> -h' for more information about a command.
` + "\n")
}
