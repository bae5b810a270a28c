package stats

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/placenotes-api/internal/config"
	"github.com/alexivanou/placenotes-api/internal/service"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time          `json:"timestamp"`
	Memory    MemoryStats        `json:"memory"`
	Database  DatabaseStats      `json:"database"`
	Cache     service.CacheStats `json:"cache"`
	Runtime   RuntimeStats       `json:"runtime"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type DatabaseStats struct {
	Name          string      `json:"name"`
	SizeBytes     int64       `json:"size_bytes"`
	TotalNotes    int64       `json:"total_notes"`
	NotifyEnabled int64       `json:"notify_enabled"`
	TableStats    []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// CacheReporter exposes lookup cache counters
type CacheReporter interface {
	CacheStats() service.CacheStats
}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	caches     CacheReporter
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var (
	memStatsCacheDuration = 5 * time.Second
)

func NewCollector(db *sqlx.DB, cfg config.DBConfig, caches CacheReporter) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		caches:    caches,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
	}

	stats.Memory = c.collectMemoryStats()

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Database = *dbStats
	if c.caches != nil {
		stats.Cache = c.caches.CacheStats()
	}
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Name:       c.config.Name,
		TableStats: []TableStat{},
	}

	var size int64
	if err := c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"); err == nil {
		stats.SizeBytes = size
	}

	var counts struct {
		Total   int64 `db:"total"`
		Enabled int64 `db:"enabled"`
	}
	err := c.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN notify_enabled THEN 1 ELSE 0 END), 0) AS enabled
		FROM place_notes
	`)
	if err != nil {
		return nil, err
	}
	stats.TotalNotes = counts.Total
	stats.NotifyEnabled = counts.Enabled

	for _, table := range []string{"place_notes", "schema_migrations"} {
		var count int64
		if err := c.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			continue
		}
		stats.TableStats = append(stats.TableStats, TableStat{Name: table, RowCount: count})
	}

	return stats, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}
