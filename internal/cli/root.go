package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/compoundverse/internal/backup"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/registry"
	"github.com/julianstephens/compoundverse/internal/storage"
	"github.com/julianstephens/compoundverse/internal/storage/sqlite"
	"github.com/julianstephens/compoundverse/internal/tracker"
)

type Context struct {
	Store     storage.Provider
	Registry  *registry.Registry
	Tracker   *tracker.Service
	UserID    string
	ConfigDir string
	Debug     bool
}

// NewContext wires the registry and tracker around store for userID.
func NewContext(store storage.Provider, userID string, opts ...tracker.Option) *Context {
	reg := registry.New(store)
	return &Context{
		Store:    store,
		Registry: reg,
		Tracker:  tracker.New(store, reg, opts...),
		UserID:   userID,
	}
}

// SQLitePath returns the database file path when the store is SQLite.
func (c *Context) SQLitePath() (string, bool) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return "", false
	}
	return c.Store.GetConfigPath(), true
}

// AutoBackup snapshots a SQLite database before a destructive change.
// Failures are logged and never block the command.
func (c *Context) AutoBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseSelections turns --select and --done flags into check-in selections.
// Each select value is "domain=action[,action...]"; a done value names a
// domain that has no micro-actions.
func ParseSelections(selects, done []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, raw := range selects {
		domain, actions, ok := strings.Cut(raw, "=")
		domain = strings.TrimSpace(domain)
		if !ok || domain == "" {
			return nil, fmt.Errorf("invalid selection %q, expected domain=action[,action]", raw)
		}
		if _, seen := out[domain]; !seen {
			out[domain] = []string{}
		}
		for _, a := range strings.Split(actions, ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				out[domain] = append(out[domain], a)
			}
		}
	}
	for _, d := range done {
		d = strings.TrimSpace(d)
		if d == "" {
			return nil, fmt.Errorf("empty domain in --done")
		}
		if _, seen := out[d]; !seen {
			out[d] = []string{}
		}
	}
	return out, nil
}
