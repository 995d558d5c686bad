package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/teeprint/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	progressEvery = 100_000
)

// feedProduct is one line of a supplier catalog feed (JSONL, gzipped).
type feedProduct struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	SectionID string          `json:"sectionId"`
	Image     struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

func (p feedProduct) valid() bool {
	return p.SKU != "" && p.Name != "" && p.SectionID != "" && !p.BasePrice.IsNegative()
}

// skuFilter dedupes SKUs across feed files. First feed to claim a SKU wins;
// later occurrences are skipped. Writes are upserts, so re-running the ingest
// is idempotent.
type skuFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

func newSKUFilter() *skuFilter {
	return &skuFilter{filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}
}

// claim returns true if the SKU has not been seen before and marks it seen.
func (f *skuFilter) claim(sku string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.filter.TestOrAddString(sku)
}

func main() {
	var (
		dataDir     string
		databaseURL string
		workers     int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz catalog feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&workers, "workers", 4, "max feed files processed concurrently")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL, workers); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, workers int) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feed files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("ingesting catalog feeds", slog.Int("files", len(files)), slog.Int("workers", workers))

	seen := newSKUFilter()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		g.Go(ingestFeed(ctx, pool, seen, f))
	}

	return g.Wait()
}

func ingestFeed(ctx context.Context, pool *pgxpool.Pool, seen *skuFilter, path string) func() error {
	return func() error {
		name := filepath.Base(path)
		var total, written, skipped, malformed uint64

		err := streamGzLines(ctx, path, func(line []byte) error {
			total++
			if total%progressEvery == 0 {
				slog.Info("ingest progress", slog.String("file", name), slog.Uint64("lines", total))
			}

			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil || !p.valid() {
				malformed++
				return nil
			}
			if !seen.claim(p.SKU) {
				skipped++
				return nil
			}

			if err := upsertProduct(ctx, pool, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.SKU)
			}
			written++
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "ingest feed %s", name)
		}

		slog.Info("feed complete",
			slog.String("file", name),
			slog.Uint64("lines", total),
			slog.Uint64("written", written),
			slog.Uint64("duplicates", skipped),
			slog.Uint64("malformed", malformed),
		)
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p feedProduct) error {
	// Feeds may reference sections that have not been seeded yet.
	const sectionQuery = `
		INSERT INTO sections (id, name)
		VALUES ($1, $1)
		ON CONFLICT (id) DO NOTHING`

	if _, err := pool.Exec(ctx, sectionQuery, p.SectionID); err != nil {
		return errors.Wrapf(err, "ensure section %s", p.SectionID)
	}

	const query = `
		INSERT INTO products (
			id, name, base_price, section_id,
			image_thumbnail, image_mobile, image_tablet, image_desktop
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			base_price = EXCLUDED.base_price,
			section_id = EXCLUDED.section_id,
			image_thumbnail = EXCLUDED.image_thumbnail,
			image_mobile = EXCLUDED.image_mobile,
			image_tablet = EXCLUDED.image_tablet,
			image_desktop = EXCLUDED.image_desktop`

	_, err := pool.Exec(ctx, query,
		p.SKU, p.Name, p.BasePrice, p.SectionID,
		p.Image.Thumbnail, p.Image.Mobile, p.Image.Tablet, p.Image.Desktop,
	)
	return err
}
