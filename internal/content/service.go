package content

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/libyanfood/site/internal/cache"
	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"

	"gorm.io/gorm/clause"
)

const cachePrefix = "content:"

// CacheTTL bounds how long the public content tree is served from cache.
var CacheTTL = 5 * time.Minute

// generation is bumped after every write. A read that overlaps a write
// must not leave its rows in the cache.
var generation atomic.Uint64

// Section maps a field key to its stored value.
type Section map[string]models.SiteContent

// Tree maps a section key to its fields.
type Tree map[string]Section

func GetAllContent(ctx context.Context) (Tree, error) {
	tree := Tree{}
	if cached(ctx, cachePrefix+"all", &tree) {
		return tree, nil
	}
	gen := generation.Load()

	var rows []models.SiteContent
	if err := database.DB.WithContext(ctx).Order("section, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if tree[row.Section] == nil {
			tree[row.Section] = Section{}
		}
		tree[row.Section][row.Key] = row
	}

	store(ctx, cachePrefix+"all", tree, gen)
	return tree, nil
}

// GetSection returns the fields of one section; unknown sections are empty.
func GetSection(ctx context.Context, section string) (Section, error) {
	key := cachePrefix + "section:" + section
	fields := Section{}
	if cached(ctx, key, &fields) {
		return fields, nil
	}
	gen := generation.Load()

	var rows []models.SiteContent
	if err := database.DB.WithContext(ctx).Where("section = ?", section).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		fields[row.Key] = row
	}

	store(ctx, key, fields, gen)
	return fields, nil
}

// UpdateContent upserts one field and drops every cached content payload.
func UpdateContent(ctx context.Context, section, key, value string) (*models.SiteContent, error) {
	row := models.SiteContent{
		Section:   section,
		Key:       key,
		Value:     value,
		Type:      "text",
		UpdatedAt: time.Now(),
	}

	err := database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	generation.Add(1)
	cache.Current.DeleteByPrefix(ctx, cachePrefix)
	return &row, nil
}

func cached(ctx context.Context, key string, v interface{}) bool {
	raw, ok := cache.Current.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("⚠️  discarding cached %s: %v", key, err)
		return false
	}
	return true
}

// store caches v, read at generation gen. The entry is dropped again when a
// write finished in between, since its invalidation may have run before Set.
func store(ctx context.Context, key string, v interface{}, gen uint64) {
	if generation.Load() != gen {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	cache.Current.Set(ctx, key, raw, CacheTTL)
	if generation.Load() != gen {
		cache.Current.DeleteByPrefix(ctx, key)
	}
}
