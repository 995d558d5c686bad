package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/teeprint/internal/storage/postgres"
)

type sectionJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productJSON struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	SectionID       string          `json:"sectionId"`
	DiscountApplied bool            `json:"discountApplied"`
	Image           struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

type printSizeJSON struct {
	Label        string          `json:"label"`
	WidthCm      float64         `json:"widthCm"`
	HeightCm     float64         `json:"heightCm"`
	Surcharge    decimal.Decimal `json:"surcharge"`
	PreviewScale float64         `json:"previewScale"`
}

type ruleJSON struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percent    decimal.Decimal `json:"percent"`
	SectionIDs []string        `json:"sectionIds"`
	ProductIDs []string        `json:"productIds"`
	StartsAt   time.Time       `json:"startsAt"`
	EndsAt     time.Time       `json:"endsAt"`
	Active     bool            `json:"active"`
}

type seedFile struct {
	Sections   []sectionJSON   `json:"sections"`
	Products   []productJSON   `json:"products"`
	PrintSizes []printSizeJSON `json:"printSizes"`
	Rules      []ruleJSON      `json:"discountRules"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
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

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedSections(ctx, pool, seed.Sections); err != nil {
		return errors.Wrap(err, "seed sections")
	}
	if err := seedProducts(ctx, pool, seed.Products); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedPrintSizes(ctx, pool, seed.PrintSizes); err != nil {
		return errors.Wrap(err, "seed print sizes")
	}
	if err := seedRules(ctx, pool, seed.Rules); err != nil {
		return errors.Wrap(err, "seed discount rules")
	}

	return nil
}

func seedSections(ctx context.Context, pool *pgxpool.Pool, sections []sectionJSON) error {
	slog.Info("upserting sections", slog.Int("count", len(sections)))

	const query = `
		INSERT INTO sections (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	for _, s := range sections {
		if _, err := pool.Exec(ctx, query, s.ID, s.Name); err != nil {
			return errors.Wrapf(err, "upsert section %s", s.ID)
		}
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	const query = `
		INSERT INTO products (
			id, name, base_price, section_id, discount_applied,
			image_thumbnail, image_mobile, image_tablet, image_desktop
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			base_price = EXCLUDED.base_price,
			section_id = EXCLUDED.section_id,
			discount_applied = EXCLUDED.discount_applied,
			image_thumbnail = EXCLUDED.image_thumbnail,
			image_mobile = EXCLUDED.image_mobile,
			image_tablet = EXCLUDED.image_tablet,
			image_desktop = EXCLUDED.image_desktop`

	for _, p := range products {
		if _, err := pool.Exec(ctx, query,
			p.ID, p.Name, p.BasePrice, p.SectionID, p.DiscountApplied,
			p.Image.Thumbnail, p.Image.Mobile, p.Image.Tablet, p.Image.Desktop,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedPrintSizes(ctx context.Context, pool *pgxpool.Pool, sizes []printSizeJSON) error {
	slog.Info("upserting print sizes", slog.Int("count", len(sizes)))

	const query = `
		INSERT INTO print_sizes (label, width_cm, height_cm, surcharge, preview_scale, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (label) DO UPDATE SET
			width_cm = EXCLUDED.width_cm,
			height_cm = EXCLUDED.height_cm,
			surcharge = EXCLUDED.surcharge,
			preview_scale = EXCLUDED.preview_scale,
			sort_order = EXCLUDED.sort_order`

	for i, s := range sizes {
		if _, err := pool.Exec(ctx, query,
			s.Label, s.WidthCm, s.HeightCm, s.Surcharge, s.PreviewScale, i,
		); err != nil {
			return errors.Wrapf(err, "upsert print size %s", s.Label)
		}
	}

	return nil
}

func seedRules(ctx context.Context, pool *pgxpool.Pool, rules []ruleJSON) error {
	slog.Info("upserting discount rules", slog.Int("count", len(rules)))

	const query = `
		INSERT INTO discount_rules (id, name, percent, section_ids, product_ids, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			percent = EXCLUDED.percent,
			section_ids = EXCLUDED.section_ids,
			product_ids = EXCLUDED.product_ids,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			active = EXCLUDED.active`

	for _, rule := range rules {
		sectionIDs := rule.SectionIDs
		if sectionIDs == nil {
			sectionIDs = []string{}
		}
		productIDs := rule.ProductIDs
		if productIDs == nil {
			productIDs = []string{}
		}

		if _, err := pool.Exec(ctx, query,
			rule.ID, rule.Name, rule.Percent, sectionIDs, productIDs,
			rule.StartsAt, rule.EndsAt, rule.Active,
		); err != nil {
			return errors.Wrapf(err, "upsert discount rule %s", rule.ID)
		}

		slog.Info("upserted discount rule", slog.String("id", rule.ID), slog.String("name", rule.Name))
	}

	return nil
}
