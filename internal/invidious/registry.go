// Package invidious maintains a pool of alternate caption proxy instances
// and fetches caption tracks through them. Public instances come and go, so
// the registry refreshes its list from the instance directory on an hourly
// TTL and falls back to a hardcoded list when the directory is unreachable.
package invidious

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultDirectoryURL = "https://api.invidious.io/instances.json"
	refreshInterval     = time.Hour
	// maxInstances caps the retained list to bound later fan-out cost.
	maxInstances = 15
	// probeLimit bounds how many instances one caption lookup may try.
	probeLimit = 8

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// fallbackInstances is used when the directory has never been reachable.
// The registry must never hand out an empty list.
var fallbackInstances = []string{
	"https://vid.puffyan.us",
	"https://invidious.privacydev.net",
	"https://invidious.projectsegfau.lt",
	"https://inv.riverside.rocks",
	"https://invidious.drgns.space",
	"https://y.com.sb",
	"https://invidious.sethforprivacy.com",
	"https://invidious.tiekoetter.com",
	"https://inv.bp.projectsegfau.lt",
	"https://invidious.nerdvpn.de",
	"https://yewtu.be",
}

// Registry is the process-wide cache of known-good instances. Construct it
// once and pass it by reference to the strategies that need it.
type Registry struct {
	directoryURL string
	client       *http.Client
	now          func() time.Time
	log          zerolog.Logger

	mu          sync.Mutex
	instances   []string
	lastRefresh time.Time
}

// Options configures a Registry. Zero values select production defaults;
// tests inject a fake directory URL and clock.
type Options struct {
	DirectoryURL string
	HTTPTimeout  time.Duration
	Now          func() time.Time
	Log          zerolog.Logger
}

// NewRegistry creates a Registry with an empty cache. The first Instances
// call triggers a directory refresh.
func NewRegistry(opts Options) *Registry {
	if opts.DirectoryURL == "" {
		opts.DirectoryURL = defaultDirectoryURL
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 8 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		directoryURL: opts.DirectoryURL,
		client:       &http.Client{Timeout: opts.HTTPTimeout},
		now:          opts.Now,
		log:          opts.Log,
	}
}

// Instances returns the current instance list, refreshing from the
// directory when the cache is older than the refresh interval. On directory
// failure with an empty cache it returns the hardcoded fallback list.
func (r *Registry) Instances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if len(r.instances) > 0 && now.Sub(r.lastRefresh) <= refreshInterval {
		return append([]string(nil), r.instances...)
	}

	live, err := r.fetchDirectory()
	if err != nil {
		r.log.Warn().Err(err).Msg("instance directory fetch failed")
		if len(r.instances) > 0 {
			// Keep serving the stale cache rather than dropping to fallback.
			return append([]string(nil), r.instances...)
		}
		return append([]string(nil), fallbackInstances...)
	}

	r.instances = live
	r.lastRefresh = now
	r.log.Info().Int("count", len(live)).Msg("instance list refreshed")
	return append([]string(nil), r.instances...)
}

// directoryMeta is the metadata half of a directory entry. Entries arrive as
// two-element arrays: [domain, metadata].
type directoryMeta struct {
	URI  string `json:"uri"`
	API  bool   `json:"api"`
	Type string `json:"type"`
}

func (r *Registry) fetchDirectory() ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, r.directoryURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instance directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var entries [][]json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode instance directory: %w", err)
	}

	var working []string
	for _, entry := range entries {
		if len(entry) < 2 {
			continue
		}
		var meta directoryMeta
		if err := json.Unmarshal(entry[1], &meta); err != nil {
			continue
		}
		// Only HTTPS instances with the query API enabled are usable.
		if meta.Type != "https" || !meta.API || !isHTTPS(meta.URI) {
			continue
		}
		working = append(working, meta.URI)
		if len(working) == maxInstances {
			break
		}
	}

	if len(working) == 0 {
		return nil, fmt.Errorf("instance directory listed no usable instances")
	}
	return working, nil
}

func isHTTPS(uri string) bool {
	return len(uri) > 8 && uri[:8] == "https://"
}
