package redis

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"rentcam/internal/app/policies"
	domainlistings "rentcam/internal/domain/listings"
)

const (
	keyPrefix     = "rentcam:search"
	generationKey = keyPrefix + ":gen"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// SearchCache stores serialized search pages. Invalidation bumps a generation
// counter that is part of every key, so stale pages are never read again and
// simply expire.
type SearchCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewSearchCache(client *redis.Client, logger *slog.Logger) *SearchCache {
	return &SearchCache{client: client, logger: logger}
}

func (c *SearchCache) Get(ctx context.Context, spec domainlistings.FilterSpec, limit, offset int) ([]byte, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.warn("search cache generation read failed", err)
		return nil, -1, false
	}
	data, err := c.client.Get(ctx, cacheKey(gen, spec, limit, offset)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		c.warn("search cache read failed", err)
		return nil, gen, false
	}
	return data, gen, true
}

// Set stores payload under the generation Get returned. When Invalidate ran
// in the meantime the key belongs to a retired generation and is never read.
func (c *SearchCache) Set(ctx context.Context, gen int64, spec domainlistings.FilterSpec, limit, offset int, payload []byte, ttl time.Duration) {
	if gen < 0 {
		return
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := c.client.Set(ctx, cacheKey(gen, spec, limit, offset), payload, ttl).Err(); err != nil {
		c.warn("search cache write failed", err)
	}
}

func (c *SearchCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.warn("search cache invalidation failed", err)
	}
}

func (c *SearchCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SearchCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *SearchCache) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "error", err)
	}
}

// cacheKey hashes the normalized spec, so specs that match the same listings
// share an entry.
func cacheKey(gen int64, spec domainlistings.FilterSpec, limit, offset int) string {
	spec = spec.Normalized()
	params := map[string]string{
		"type":         strings.ToLower(string(spec.Type)),
		"city":         strings.ToLower(spec.City),
		"neighborhood": strings.ToLower(spec.Neighborhood),
		"q":            strings.ToLower(spec.Query),
		"category":     string(spec.Category),
		"owner":        string(spec.OwnerID),
		"available":    strconv.FormatBool(spec.AvailableOnly),
		"limit":        strconv.Itoa(limit),
		"offset":       strconv.Itoa(offset),
	}
	if params["type"] == "" {
		params["type"] = string(domainlistings.TypeAll)
	}
	if spec.MinPrice != nil {
		params["min"] = strconv.FormatInt(*spec.MinPrice, 10)
	}
	if spec.MaxPrice != nil {
		params["max"] = strconv.FormatInt(*spec.MaxPrice, 10)
	}
	if spec.Bedrooms != nil {
		params["bedrooms"] = strconv.Itoa(*spec.Bedrooms)
	}
	if len(spec.Amenities) > 0 {
		amenities := make([]string, 0, len(spec.Amenities))
		for _, a := range spec.Amenities {
			amenities = append(amenities, strings.ToLower(a))
		}
		sort.Strings(amenities)
		params["amenities"] = strings.Join(amenities, ",")
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}
	hash := md5.Sum([]byte(builder.String()))
	return keyPrefix + ":g" + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(hash[:])
}

var _ policies.SearchCache = (*SearchCache)(nil)
