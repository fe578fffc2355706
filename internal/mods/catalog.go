package mods

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// InstallURLBase is the mod page prefix used when a catalog entry has no URL.
const InstallURLBase = "https://zen-browser.app/mods/"

const maxCatalogSize = 32 << 20

// Mod is one catalog entry.
type Mod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Homepage    string `json:"homepage"`
	URL         string `json:"url"`
}

// InstallURL returns the page where the mod can be installed.
func (m Mod) InstallURL() string {
	if m.URL != "" {
		return m.URL
	}
	return InstallURLBase + m.ID + "/"
}

// Catalog maps mod IDs to entries.
type Catalog struct {
	mods map[string]Mod
}

// ParseCatalog decodes a theme store index: a JSON object keyed by mod ID.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]Mod
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mod catalog: %w", err)
	}
	c := &Catalog{mods: make(map[string]Mod, len(raw))}
	for id, m := range raw {
		m.ID = id
		c.mods[id] = m
	}
	return c, nil
}

// Len returns the number of mods in the catalog.
func (c *Catalog) Len() int { return len(c.mods) }

// Get returns the mod with the given ID.
func (c *Catalog) Get(id string) (Mod, bool) {
	m, ok := c.mods[id]
	return m, ok
}

// All returns every mod sorted by name, then ID.
func (c *Catalog) All() []Mod {
	out := make([]Mod, 0, len(c.mods))
	for _, m := range c.mods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Fetcher loads catalogs over HTTP or from local files.
type Fetcher struct {
	client *http.Client
	fs     system.FileSystem
}

// NewFetcher returns a Fetcher. A nil client uses a client with a 30
// second timeout; a nil fs uses the OS filesystem.
func NewFetcher(client *http.Client, fsys system.FileSystem) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	return &Fetcher{client: client, fs: fsys}
}

// IsRemote reports whether source is a URL rather than a plain file path.
func IsRemote(source string) bool {
	return isHTTP(source) || strings.HasPrefix(source, "file://")
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch loads the catalog from source, an http(s) URL or a file path. An
// empty source uses the public theme store.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Catalog, error) {
	if source == "" {
		source = config.DefaultCatalogURL
	}

	var data []byte
	var err error
	switch {
	case isHTTP(source):
		data, err = f.fetchHTTP(ctx, source)
	default:
		data, err = f.fs.ReadFile(strings.TrimPrefix(source, "file://"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mod catalog from %s: %w", source, err)
	}
	return ParseCatalog(data)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "browser-conf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
}
