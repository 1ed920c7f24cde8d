package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ilsubyeega/fgtail/internal/logging"
)

// RetentionPolicy defines how many capture sessions are retained on disk.
type RetentionPolicy struct {
	MaxCaptures int
	MaxAge      time.Duration
}

// StorageStats summarises the disk footprint of persisted captures.
type StorageStats struct {
	Captures  int
	Bytes     int64
	LastSweep time.Time
}

// Cleaner periodically prunes capture sessions according to a retention policy.
type Cleaner struct {
	mu     sync.RWMutex
	dir    string
	policy RetentionPolicy
	log    *logging.Logger
	now    func() time.Time
	stats  StorageStats
}

// NewCleaner constructs a cleaner for the provided capture root directory.
func NewCleaner(dir string, policy RetentionPolicy, logger *logging.Logger) *Cleaner {
	if logger == nil {
		logger = logging.L()
	}
	return &Cleaner{dir: dir, policy: policy, log: logger, now: time.Now}
}

// Run executes retention sweeps until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context, interval time.Duration) {
	if c == nil || ctx == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// RunOnce performs a single retention sweep, primarily used for tests.
func (c *Cleaner) RunOnce() {
	if c == nil {
		return
	}
	c.sweep()
}

// Stats returns the last recorded storage statistics.
func (c *Cleaner) Stats() StorageStats {
	if c == nil {
		return StorageStats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Cleaner) sweep() {
	if c == nil || strings.TrimSpace(c.dir) == "" {
		return
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.log.Warn("capture retention scan failed", logging.Error(err), logging.String("directory", c.dir))
		return
	}

	type captureDir struct {
		path    string
		size    int64
		modTime time.Time
	}

	captures := make([]captureDir, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			c.log.Warn("capture retention stat failed", logging.Error(err), logging.String("path", path))
			continue
		}
		size, err := directorySize(path)
		if err != nil {
			c.log.Warn("capture retention size failed", logging.Error(err), logging.String("path", path))
			continue
		}
		captures = append(captures, captureDir{path: path, size: size, modTime: info.ModTime()})
	}
	sort.Slice(captures, func(i, j int) bool { return captures[i].modTime.After(captures[j].modTime) })

	now := c.now()
	stats := StorageStats{LastSweep: now}
	kept := 0
	for _, sess := range captures {
		reasons := make([]string, 0, 2)
		if c.policy.MaxAge > 0 && now.Sub(sess.modTime) > c.policy.MaxAge {
			reasons = append(reasons, fmt.Sprintf("age>%s", c.policy.MaxAge))
		}
		if c.policy.MaxCaptures > 0 && kept >= c.policy.MaxCaptures {
			reasons = append(reasons, fmt.Sprintf(">=%d captures", c.policy.MaxCaptures))
		}
		if len(reasons) > 0 {
			if err := os.RemoveAll(sess.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				c.log.Warn("capture retention removal failed", logging.Error(err), logging.String("capture", sess.path))
				kept++
				stats.Captures++
				stats.Bytes += sess.size
				continue
			}
			c.log.Info("capture retention removed session", logging.String("capture", sess.path), logging.String("reason", strings.Join(reasons, ", ")))
			continue
		}
		kept++
		stats.Captures++
		stats.Bytes += sess.size
	}

	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

func directorySize(root string) (int64, error) {
	var total int64
	walkErr := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, walkErr
}
