package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alexivanou/placenotes-api/internal/cache"
	"github.com/alexivanou/placenotes-api/internal/stats"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultStatsURL = "http://localhost:4000/api/stats"

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	_ = godotenv.Load()

	statsURL := os.Getenv("STATS_URL")
	if statsURL == "" {
		statsURL = defaultStatsURL
	}

	logger.Info("Collecting statistics...", zap.String("url", statsURL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	statistics, err := fetchStats(ctx, http.DefaultClient, statsURL)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func fetchStats(ctx context.Context, client *http.Client, url string) (*stats.Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var s stats.Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode statistics: %w", err)
	}
	return &s, nil
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== Application Statistics ===")
	fmt.Printf("Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Memory Statistics ---")
	fmt.Printf("Allocated:        %s\n", formatBytes(s.Memory.Alloc))
	fmt.Printf("Total Allocated:  %s\n", formatBytes(s.Memory.TotalAlloc))
	fmt.Println()

	fmt.Println("--- Database Statistics ---")
	fmt.Printf("Name:            %s\n", s.Database.Name)
	fmt.Printf("Notes:           %d (%d with notifications)\n", s.Database.TotalNotes, s.Database.NotifyEnabled)
	if s.Database.SizeBytes > 0 {
		fmt.Printf("Size:            %s\n", formatBytes(uint64(s.Database.SizeBytes)))
	}
	fmt.Println()
	fmt.Println("Table Statistics:")
	for _, ts := range s.Database.TableStats {
		fmt.Printf("  %-25s: %10d rows\n", ts.Name, ts.RowCount)
	}
	fmt.Println()

	fmt.Println("--- Cache Statistics ---")
	printCache("Search", s.Cache.Search)
	printCache("Photos", s.Cache.Photos)
	fmt.Println()

	fmt.Println("--- Runtime Statistics ---")
	fmt.Printf("Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}

func printCache(name string, c cache.Stats) {
	capacity := "unbounded"
	if c.Capacity > 0 {
		capacity = fmt.Sprintf("%d", c.Capacity)
	}
	fmt.Printf("  %-8s %s\n", name+":", strings.Join([]string{
		fmt.Sprintf("%d/%s entries", c.Entries, capacity),
		fmt.Sprintf("%d hits", c.Hits),
		fmt.Sprintf("%d misses", c.Misses),
		fmt.Sprintf("%d evictions", c.Evictions),
	}, ", "))
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
