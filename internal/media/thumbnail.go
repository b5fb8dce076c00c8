package media

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"gif-viewer/internal/database"
	"gif-viewer/internal/filesystem"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/metrics"
	"gif-viewer/internal/workers"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// ErrDisabled is returned when poster generation is turned off.
var ErrDisabled = errors.New("thumbnails disabled")

// ThumbnailGenerator produces and caches GIF posters.
type ThumbnailGenerator struct {
	cacheDir string
	enabled  bool
	retry    filesystem.RetryConfig
	group    singleflight.Group
	gate     Gate

	// Running totals of the on-disk cache, seeded by one walk at startup.
	cacheBytes atomic.Int64
	cacheFiles atomic.Int64
}

// Gate holds back warm-up work, e.g. under memory pressure.
type Gate interface {
	Wait(ctx context.Context) error
}

// SetGate makes Warm wait on g before each render.
func (t *ThumbnailGenerator) SetGate(g Gate) {
	t.gate = g
}

// NewThumbnailGenerator creates a generator writing to cacheDir. An empty
// cacheDir renders posters on every request without persisting them.
func NewThumbnailGenerator(cacheDir string, enabled bool) *ThumbnailGenerator {
	if enabled && cacheDir != "" {
		logging.Debug("ThumbnailGenerator: enabled, cache dir: %s", cacheDir)
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("ThumbnailGenerator: failed to create cache dir, caching disabled: %v", err)
			cacheDir = ""
		}
	} else if !enabled {
		logging.Debug("ThumbnailGenerator: disabled")
	}

	t := &ThumbnailGenerator{
		cacheDir: cacheDir,
		enabled:  enabled,
		retry:    filesystem.DefaultRetryConfig(),
	}
	if cacheDir != "" {
		size, count, err := measureCache(cacheDir)
		if err != nil {
			logging.Warn("ThumbnailGenerator: failed to measure cache: %v", err)
		}
		t.cacheBytes.Store(size)
		t.cacheFiles.Store(int64(count))
	}
	return t
}

// IsEnabled reports whether posters are generated at all.
func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// CacheDir returns the poster cache directory, empty when not caching.
func (t *ThumbnailGenerator) CacheDir() string {
	return t.cacheDir
}

// Key identifies the poster for gif. It changes whenever the file's size
// or modification time does.
func Key(gif *database.GIF) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(gif.Path))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(gif.Size, 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(gif.ModTime.UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// ETag returns a strong entity tag for gif's poster.
func ETag(gif *database.GIF) string {
	return `"` + Key(gif)[:32] + `"`
}

func (t *ThumbnailGenerator) cachePath(key string) string {
	return filepath.Join(t.cacheDir, key[:2], key+".jpg")
}

// GetThumbnail returns the JPEG poster for gif, generating it on a cache
// miss. Concurrent requests for the same poster share one render.
func (t *ThumbnailGenerator) GetThumbnail(gif *database.GIF) ([]byte, error) {
	if !t.enabled {
		return nil, ErrDisabled
	}

	key := Key(gif)
	if data, ok := t.readCache(key); ok {
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	v, err, _ := t.group.Do(key, func() (interface{}, error) {
		if data, ok := t.readCache(key); ok {
			return data, nil
		}
		return t.generate(gif, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (t *ThumbnailGenerator) readCache(key string) ([]byte, bool) {
	if t.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(t.cachePath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (t *ThumbnailGenerator) generate(gif *database.GIF, key string) ([]byte, error) {
	start := time.Now()
	logging.Debug("Poster generating: %s", gif.Path)

	img, err := firstFrame(gif.Path, t.retry)
	if err != nil {
		status := "error"
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			status = "error_decode"
		}
		metrics.ThumbnailGenerationsTotal.WithLabelValues(status).Inc()
		return nil, err
	}

	data, err := renderPoster(img)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error_encode").Inc()
		return nil, err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())

	if t.cacheDir != "" {
		if err := t.writeCache(key, data); err != nil {
			logging.Warn("Failed to cache poster for %s: %v", gif.Path, err)
		}
	}
	return data, nil
}

// writeCache stores data through a temp file so readers never see a
// partial poster.
func (t *ThumbnailGenerator) writeCache(key string, data []byte) error {
	path := t.cachePath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".poster-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	// Concurrent writers for one key race to the rename; only the first
	// one adds to the totals.
	var replaced int64 = -1
	if info, err := os.Stat(path); err == nil {
		replaced = info.Size()
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if replaced < 0 {
		t.cacheFiles.Add(1)
		t.cacheBytes.Add(int64(len(data)))
	} else {
		t.cacheBytes.Add(int64(len(data)) - replaced)
	}
	return nil
}

// Warm renders posters for every gif not already cached, using a bounded
// pool. It returns the number of posters generated. Failures are logged
// and do not stop the others.
func (t *ThumbnailGenerator) Warm(ctx context.Context, gifs []*database.GIF) (int, error) {
	if !t.enabled || t.cacheDir == "" {
		return 0, nil
	}

	var pending []*database.GIF
	for _, gif := range gifs {
		if _, err := os.Stat(t.cachePath(Key(gif))); err != nil {
			pending = append(pending, gif)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	n := workers.ForCPU(4)
	logging.Info("Warming %d posters with %d workers", len(pending), n)

	results := make(chan bool, len(pending))
	p := pool.New().WithMaxGoroutines(n).WithContext(ctx)
	for _, gif := range pending {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if t.gate != nil {
				if err := t.gate.Wait(ctx); err != nil {
					return err
				}
			}
			if _, err := t.GetThumbnail(gif); err != nil {
				logging.Warn("Poster for %s failed: %v", gif.Filename, err)
				return nil
			}
			results <- true
			return nil
		})
	}
	err := p.Wait()
	close(results)

	generated := len(results)
	if err != nil {
		return generated, fmt.Errorf("poster warm-up interrupted: %w", err)
	}
	return generated, nil
}

// CacheSize returns the total size and count of cached posters. It reads
// running totals and never touches the disk.
func (t *ThumbnailGenerator) CacheSize() (int64, int) {
	return t.cacheBytes.Load(), int(t.cacheFiles.Load())
}

func measureCache(dir string) (int64, int, error) {
	var size int64
	var count int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".jpg" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += info.Size()
		count++
		return nil
	})
	return size, count, err
}
