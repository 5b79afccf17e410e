package service

import (
	"sync"
	"time"
)

// RequestRateLimiter limita la frecuencia de peticiones por clave
// (id de sesión o IP del cliente).
type RequestRateLimiter interface {
	Allow(key string) bool
}

type requestRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
}

// NewRequestRateLimiter crea un rate limiter en memoria con ventana deslizante.
func NewRequestRateLimiter(window time.Duration, max int) RequestRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &requestRateLimiter{
		window:    window,
		max:       max,
		hits:      make(map[string][]time.Time),
		lastSweep: time.Now().UTC(),
	}
}

func (l *requestRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)

	// Barrido periódico: las claves que nunca vuelven (IPs de un solo uso)
	// se eliminan para que el mapa no crezca sin límite.
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	kept := pruneHits(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

func (l *requestRateLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		kept := pruneHits(entries, cutoff)
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}

func pruneHits(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
