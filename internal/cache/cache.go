// Package cache prunes files reelfeed leaves behind: IPC sockets of players
// that died without cleaning up, and old log files.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/where"
)

const (
	// SocketTTL is the age after which a socket cannot belong to a live player.
	SocketTTL = 24 * time.Hour
	// LogTTL is how long daily log files are kept.
	LogTTL = 30 * 24 * time.Hour
)

// CollectGarbage prunes stale sockets and logs. It is meant to run in its own
// goroutine at startup.
func CollectGarbage() {
	now := time.Now()
	removed := Prune(where.Sockets(), SocketTTL, now) + Prune(where.Logs(), LogTTL, now)
	if removed > 0 {
		log.Debugf("cache: removed %d stale files", removed)
	}
}

// Prune removes regular files under dir last modified more than ttl before
// now, and reports how many it removed.
func Prune(dir string, ttl time.Duration, now time.Time) int {
	fs := filesystem.API()

	var stale []string
	_ = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now.Sub(info.ModTime()) > ttl {
			stale = append(stale, path)
		}
		return nil
	})

	removed := 0
	for _, path := range stale {
		if err := fs.Remove(path); err == nil {
			removed++
		} else {
			log.Warnf("cache: could not remove %s: %s", filepath.Base(path), err)
		}
	}
	return removed
}
