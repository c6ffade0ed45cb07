// Package postgres provides Postgres-backed persistence for brand records.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storesight/brand-insights/internal/brand"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// BrandStore persists brand records, keyed by base URL. Upsert replaces the
// child collections (products, policies, faqs) inside one transaction.
type BrandStore struct {
	pool pool
}

// NewBrandStore creates a Postgres-backed BrandStore using the provided
// config.
func NewBrandStore(ctx context.Context, cfg Config) (*BrandStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &BrandStore{pool: p}, nil
}

// NewBrandStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewBrandStoreWithPool(p pool) (*BrandStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &BrandStore{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *BrandStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Upsert stores the record, inserting or updating the brand row by base URL
// and replacing every child row transactionally.
func (s *BrandStore) Upsert(ctx context.Context, record *brand.Context) error {
	if record == nil || record.BaseURL == "" {
		return fmt.Errorf("record base url is required")
	}
	socialsJSON, err := json.Marshal(record.SocialHandles)
	if err != nil {
		return fmt.Errorf("marshal socials: %w", err)
	}
	linksJSON, err := json.Marshal(record.ImportantLinks)
	if err != nil {
		return fmt.Errorf("marshal important links: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var brandID int64
	err = tx.QueryRow(ctx, `
INSERT INTO brands (base_url, name, about_text, emails, phones, socials, important_links)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (base_url) DO UPDATE SET
	name = EXCLUDED.name,
	about_text = EXCLUDED.about_text,
	emails = EXCLUDED.emails,
	phones = EXCLUDED.phones,
	socials = EXCLUDED.socials,
	important_links = EXCLUDED.important_links,
	updated_at = now()
RETURNING id`,
		record.BaseURL,
		record.BrandName,
		record.AboutText,
		strings.Join(record.ContactEmails, ","),
		strings.Join(record.ContactPhones, ","),
		socialsJSON,
		linksJSON,
	).Scan(&brandID)
	if err != nil {
		return fmt.Errorf("upsert brand: %w", err)
	}

	for _, table := range []string{"products", "policies", "faqs"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE brand_id = $1", table), brandID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range record.Products {
		rawJSON, err := json.Marshal(p.Raw)
		if err != nil {
			return fmt.Errorf("marshal product raw: %w", err)
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO products (brand_id, title, handle, product_type, vendor, status, tags, image, url, raw, is_hero)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			brandID, p.Title, p.Handle, p.ProductType, p.Vendor, p.Status,
			strings.Join(p.Tags, ","), p.Image, p.URL, rawJSON, p.IsHero,
		); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
	}
	for _, pol := range record.Policies {
		if _, err := tx.Exec(ctx, `
INSERT INTO policies (brand_id, kind, url, content)
VALUES ($1, $2, $3, $4)`,
			brandID, string(pol.Kind), pol.URL, pol.Content,
		); err != nil {
			return fmt.Errorf("insert policy: %w", err)
		}
	}
	for _, f := range record.FAQs {
		if _, err := tx.Exec(ctx, `
INSERT INTO faqs (brand_id, question, answer, url)
VALUES ($1, $2, $3, $4)`,
			brandID, f.Question, f.Answer, f.URL,
		); err != nil {
			return fmt.Errorf("insert faq: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ErrBrandNotFound is returned by Get for an unknown base URL.
var ErrBrandNotFound = errors.New("brand not found")

// Get reads back the record for a base URL, including its children.
func (s *BrandStore) Get(ctx context.Context, baseURL string) (*brand.Context, error) {
	record := brand.NewContext(baseURL)

	var (
		brandID            int64
		emails, phones     string
		socials, linksJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
SELECT id, name, about_text, emails, phones, socials, important_links
FROM brands WHERE base_url = $1`, baseURL).
		Scan(&brandID, &record.BrandName, &record.AboutText, &emails, &phones, &socials, &linksJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("select brand: %w", err)
	}
	record.ContactEmails = splitList(emails)
	record.ContactPhones = splitList(phones)
	if len(socials) > 0 {
		if err := json.Unmarshal(socials, &record.SocialHandles); err != nil {
			return nil, fmt.Errorf("unmarshal socials: %w", err)
		}
	}
	if len(linksJSON) > 0 {
		if err := json.Unmarshal(linksJSON, &record.ImportantLinks); err != nil {
			return nil, fmt.Errorf("unmarshal important links: %w", err)
		}
	}

	if record.Products, err = s.loadProducts(ctx, brandID); err != nil {
		return nil, err
	}
	for _, p := range record.Products {
		if p.IsHero {
			record.HeroProducts = append(record.HeroProducts, p)
		}
	}
	if record.Policies, err = s.loadPolicies(ctx, brandID); err != nil {
		return nil, err
	}
	if record.FAQs, err = s.loadFAQs(ctx, brandID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *BrandStore) loadProducts(ctx context.Context, brandID int64) ([]brand.Product, error) {
	rows, err := s.pool.Query(ctx, `
SELECT title, handle, product_type, vendor, status, tags, image, url, raw, is_hero
FROM products WHERE brand_id = $1 ORDER BY id`, brandID)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []brand.Product{}
	for rows.Next() {
		var (
			p       brand.Product
			tags    string
			rawJSON []byte
		)
		if err := rows.Scan(&p.Title, &p.Handle, &p.ProductType, &p.Vendor, &p.Status,
			&tags, &p.Image, &p.URL, &rawJSON, &p.IsHero); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Tags = splitList(tags)
		if len(rawJSON) > 0 {
			if err := json.Unmarshal(rawJSON, &p.Raw); err != nil {
				return nil, fmt.Errorf("unmarshal product raw: %w", err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *BrandStore) loadPolicies(ctx context.Context, brandID int64) ([]brand.Policy, error) {
	rows, err := s.pool.Query(ctx, `
SELECT kind, url, content FROM policies WHERE brand_id = $1 ORDER BY id`, brandID)
	if err != nil {
		return nil, fmt.Errorf("select policies: %w", err)
	}
	defer rows.Close()

	policies := []brand.Policy{}
	for rows.Next() {
		var (
			pol  brand.Policy
			kind string
		)
		if err := rows.Scan(&kind, &pol.URL, &pol.Content); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		pol.Kind = brand.PolicyKind(kind)
		policies = append(policies, pol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return policies, nil
}

func (s *BrandStore) loadFAQs(ctx context.Context, brandID int64) ([]brand.FAQ, error) {
	rows, err := s.pool.Query(ctx, `
SELECT question, answer, url FROM faqs WHERE brand_id = $1 ORDER BY id`, brandID)
	if err != nil {
		return nil, fmt.Errorf("select faqs: %w", err)
	}
	defer rows.Close()

	faqs := []brand.FAQ{}
	for rows.Next() {
		var f brand.FAQ
		if err := rows.Scan(&f.Question, &f.Answer, &f.URL); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faqs: %w", err)
	}
	return faqs, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
