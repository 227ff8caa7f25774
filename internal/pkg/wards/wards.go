// Package wards is the ward directory: the fixed reference list of municipal wards.
package wards

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/cache"
	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v3"
)

//go:embed wards.yaml
var defaultWards []byte

const (
	listCacheKey = "wards:list"
	listCacheTTL = time.Hour
)

// Parse decodes a YAML ward list and validates every entry.
func Parse(data []byte) ([]models.Ward, error) {
	var list []models.Ward
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse wards: %w", err)
	}

	seen := make(map[string]struct{}, len(list))
	for i := range list {
		w := &list[i]
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("ward %d (%q): %w", i, w.ID, err)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("duplicate ward id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	return list, nil
}

// LoadDefaults returns the built-in ward list.
func LoadDefaults() ([]models.Ward, error) {
	return Parse(defaultWards)
}

// Directory answers ward lookups from the ward repository, caching the full list when a cache is set.
type Directory struct {
	repo  repository.WardRepository
	cache cache.Cache
}

// NewDirectory creates a directory. c may be nil.
func NewDirectory(repo repository.WardRepository, c cache.Cache) *Directory {
	return &Directory{repo: repo, cache: c}
}

// Seed writes the given wards to the repository.
func (d *Directory) Seed(ctx context.Context, list []models.Ward) error {
	for i := range list {
		if err := d.repo.Upsert(ctx, &list[i]); err != nil {
			return fmt.Errorf("failed to seed ward %s: %w", list[i].ID, err)
		}
	}
	if d.cache != nil {
		if err := d.cache.Delete(ctx, listCacheKey); err != nil {
			log.Warnf("[Wards] Failed to invalidate ward cache: %v", err)
		}
	}
	log.Infof("[Wards] Seeded %d wards", len(list))
	return nil
}

// List returns every ward ordered by name.
func (d *Directory) List(ctx context.Context) ([]models.Ward, error) {
	if d.cache != nil {
		if raw, err := d.cache.Get(ctx, listCacheKey); err == nil {
			var list []models.Ward
			if err := json.Unmarshal([]byte(raw), &list); err == nil {
				return list, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("[Wards] Cache read failed: %v", err)
		}
	}

	list, err := d.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list wards", err)
	}

	if d.cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			if err := d.cache.Set(ctx, listCacheKey, raw, listCacheTTL); err != nil {
				log.Warnf("[Wards] Cache write failed: %v", err)
			}
		}
	}
	return list, nil
}

// Get returns one ward or a NotFound error.
func (d *Directory) Get(ctx context.Context, id string) (*models.Ward, error) {
	w, err := d.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(fmt.Sprintf("ward %s does not exist", id))
	}
	if err != nil {
		return nil, apperror.Internal("failed to load ward", err)
	}
	return w, nil
}

// Exists reports whether id names a known ward.
func (d *Directory) Exists(ctx context.Context, id string) (bool, error) {
	_, err := d.Get(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
