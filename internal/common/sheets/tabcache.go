// internal/common/sheets/tabcache.go
package sheets

import (
	"context"
	"sync"
)

// TabCache memoizes first-tab names per spreadsheet. It is constructed
// explicitly and handed to the record store, so invalidation is a direct
// Reset call rather than a process restart.
type TabCache struct {
	mu   sync.Mutex
	tabs map[string]string
}

func NewTabCache() *TabCache {
	return &TabCache{tabs: make(map[string]string)}
}

// FirstTabName returns the cached tab name for the spreadsheet, fetching
// through api on a miss.
func (c *TabCache) FirstTabName(ctx context.Context, api ValuesAPI, spreadsheetID string) (string, error) {
	c.mu.Lock()
	if name, ok := c.tabs[spreadsheetID]; ok {
		c.mu.Unlock()
		return name, nil
	}
	c.mu.Unlock()

	name, err := api.FirstTabName(ctx, spreadsheetID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.tabs[spreadsheetID] = name
	c.mu.Unlock()

	return name, nil
}

// Reset clears all cached tab names. Call after renaming or replacing a
// spreadsheet tab.
func (c *TabCache) Reset() {
	c.mu.Lock()
	c.tabs = make(map[string]string)
	c.mu.Unlock()
}
