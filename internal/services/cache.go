package services

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	path  string
	sheet string
}

// DatasetCache memoizes datasets per (path, sheet). An entry is reused until
// the workbook on disk is modified after it was loaded.
type DatasetCache struct {
	loader Loader
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[cacheKey]*Dataset
}

func NewDatasetCache(loader Loader) *DatasetCache {
	return &DatasetCache{
		loader:  loader,
		entries: make(map[cacheKey]*Dataset),
	}
}

// Load returns the cached dataset for (path, sheet) or loads it. Concurrent
// misses share one load; the load ignores any single caller's cancellation,
// and each caller stops waiting when its own ctx is done.
func (c *DatasetCache) Load(ctx context.Context, path, sheet string) (*Dataset, error) {
	key := cacheKey{path: path, sheet: sheet}

	if ds := c.fresh(key); ds != nil {
		return ds, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path+"\x00"+sheet, func() (any, error) {
		if ds := c.fresh(key); ds != nil {
			return ds, nil
		}
		ds, err := c.loader.Load(loadCtx, path, sheet)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

func (c *DatasetCache) fresh(key cacheKey) *Dataset {
	c.mu.RLock()
	ds, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	info, err := os.Stat(key.path)
	if err != nil || info.ModTime().After(ds.LoadedAt) {
		c.Invalidate(key.path, key.sheet)
		return nil
	}
	return ds
}

func (c *DatasetCache) Invalidate(path, sheet string) {
	c.mu.Lock()
	delete(c.entries, cacheKey{path: path, sheet: sheet})
	c.mu.Unlock()
}

func (c *DatasetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
