package preview

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Registry tracks live temporary proxy files so they can be deleted on
// explicit cleanup or at process shutdown. Guarded for concurrent use.
type Registry struct {
	mu   sync.Mutex
	log  zerolog.Logger
	live map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log, live: make(map[string]struct{})}
}

// Add registers a proxy path as live.
func (r *Registry) Add(path string) {
	r.mu.Lock()
	r.live[path] = struct{}{}
	r.mu.Unlock()
}

// Cleanup deletes one proxy file and deregisters it. An already-missing
// file is not an error; other removal failures are returned so the
// explicit cleanup operation can surface them.
func (r *Registry) Cleanup(path string) error {
	r.mu.Lock()
	delete(r.live, path)
	r.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupAll deletes every live proxy best-effort. Failures are logged,
// never returned; intended for process-wide shutdown.
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.live))
	for p := range r.live {
		paths = append(paths, p)
	}
	r.live = make(map[string]struct{})
	r.mu.Unlock()

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			r.log.Warn().Err(err).Str("path", p).Msg("could not remove proxy file")
		}
	}
}

// Len reports the number of live proxies.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
