package database

import "context"

// Pinger is a store the health endpoint can probe.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Probe pings each store and returns "ok" or the failure per store name.
// healthy is false when any ping fails.
func Probe(ctx context.Context, stores ...Pinger) (checks map[string]string, healthy bool) {
	checks = make(map[string]string, len(stores))
	healthy = true
	for _, s := range stores {
		if err := s.Ping(ctx); err != nil {
			checks[s.Name()] = err.Error()
			healthy = false
			continue
		}
		checks[s.Name()] = "ok"
	}
	return checks, healthy
}
