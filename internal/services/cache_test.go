package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingLoader struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (l *countingLoader) Load(ctx context.Context, path, sheet string) (*Dataset, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		return nil, l.err
	}
	return &Dataset{Source: path, Sheet: sheet, LoadedAt: time.Now()}, nil
}

func TestDatasetCache_Hit(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &countingLoader{}
	cache := NewDatasetCache(loader)

	first, err := cache.Load(context.Background(), path, "PORTFOLIO")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := cache.Load(context.Background(), path, "PORTFOLIO")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if first != second {
		t.Error("second load should return the cached dataset")
	}
	if got := loader.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	if _, err := cache.Load(context.Background(), path, "RECEIPT"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Errorf("a different sheet should miss, calls = %d", got)
	}
}

func TestDatasetCache_ReloadsModifiedFile(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &countingLoader{}
	cache := NewDatasetCache(loader)

	if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2 after modification", got)
	}
}

func TestDatasetCache_ErrorsAreNotCached(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &countingLoader{err: errors.New("boom")}
	cache := NewDatasetCache(loader)

	for range 2 {
		if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err == nil {
			t.Fatal("Load() should fail")
		}
	}
	if got := loader.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestDatasetCache_ConcurrentLoadsCollapse(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &countingLoader{delay: 50 * time.Millisecond}
	cache := NewDatasetCache(loader)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err != nil {
				t.Errorf("Load() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := loader.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestDatasetCache_Invalidate(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &countingLoader{}
	cache := NewDatasetCache(loader)

	if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cache.Invalidate(path, "PORTFOLIO")
	if _, err := cache.Load(context.Background(), path, "PORTFOLIO"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

// gatedLoader blocks until release is closed and records whether its context
// had been cancelled by then.
type gatedLoader struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
	ctxErr  atomic.Value
}

func (l *gatedLoader) Load(ctx context.Context, path, sheet string) (*Dataset, error) {
	if l.calls.Add(1) == 1 {
		close(l.started)
	}
	<-l.release
	l.ctxErr.Store(fmt.Sprint(ctx.Err()))
	return &Dataset{Source: path, Sheet: sheet, LoadedAt: time.Now()}, nil
}

func TestDatasetCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	loader := &gatedLoader{started: make(chan struct{}), release: make(chan struct{})}
	cache := NewDatasetCache(loader)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Load(firstCtx, path, "PORTFOLIO")
		firstErr <- err
	}()
	<-loader.started

	type result struct {
		ds  *Dataset
		err error
	}
	second := make(chan result, 1)
	go func() {
		ds, err := cache.Load(context.Background(), path, "PORTFOLIO")
		second <- result{ds, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(loader.release)
	res := <-second
	if res.err != nil {
		t.Fatalf("waiting caller error = %v", res.err)
	}
	if res.ds == nil || res.ds.Sheet != "PORTFOLIO" {
		t.Errorf("waiting caller dataset = %+v", res.ds)
	}
	if got := loader.ctxErr.Load(); got != "<nil>" {
		t.Errorf("loader context error = %v, want <nil>", got)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
