package portalclient

import (
	"context"
	"net/http"
	"sync"

	siteapp "github.com/emlak/backend/internal/application/site"
	"golang.org/x/sync/singleflight"
)

// Settings is the site-wide configuration shown by the public site
type Settings = siteapp.SettingsResponse

// Settings fetches the site settings without caching
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var s Settings
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/settings", out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// SettingsProvider serves the site settings, fetching them at most once in
// its lifetime. Concurrent callers of the first fetch share it. A failed
// fetch is not remembered, so the next call tries again.
type SettingsProvider struct {
	client *Client
	group  singleflight.Group

	mu       sync.RWMutex
	settings *Settings
}

// NewSettingsProvider creates a provider backed by client
func NewSettingsProvider(client *Client) *SettingsProvider {
	return &SettingsProvider{client: client}
}

// Get returns the settings. Callers must not modify the result. A caller
// that gives up only stops waiting; the shared fetch carries on for the rest.
func (p *SettingsProvider) Get(ctx context.Context) (*Settings, error) {
	p.mu.RLock()
	cached := p.settings
	p.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	ch := p.group.DoChan("settings", func() (any, error) {
		p.mu.RLock()
		cached := p.settings
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		// the fetch outlives the caller that started it; waiters share it
		s, err := p.client.Settings(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.settings = s
		p.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Settings), nil
	}
}
