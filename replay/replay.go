/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package replay stores envelope responses already sent for an
// idempotency key, so that a retried request gets the same envelope back,
// timestamp included, instead of running twice.
package replay

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned by Store.Get when no record exists for a key.
var ErrNotFound = errors.New("replay: record not found")

// Record is a captured HTTP response. A record with a zero Status marks a
// request whose response is still being produced.
type Record struct {
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	// RequestHash identifies the request body the response belongs to.
	RequestHash string `json:"request_hash"`
}

// Pending reports whether rec is an in-flight marker.
func (r Record) Pending() bool { return r.Status == 0 }

// Store persists records.
//
// Save must not overwrite an existing record and reports whether it stored
// rec; it is how a request claims a key. Put overwrites unconditionally and
// Delete releases a key. Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (Record, error)
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) (bool, error)
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Key(scope, id string) string
}

// HashBody returns the request hash stored in a Record.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

const keyNamespace = "denvelope:replay"

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, ":")
}

// MemoryStore is an in-process Store, for tests and single-instance
// deployments without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]memoryEntry), now: time.Now}
}

// Get returns the live record for key.
func (m *MemoryStore) Get(_ context.Context, key string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.recs[key]
	if !ok || m.expired(e) {
		delete(m.recs, key)
		return Record{}, ErrNotFound
	}
	return e.rec, nil
}

// Save stores rec unless a live record already exists for key.
func (m *MemoryStore) Save(_ context.Context, key string, rec Record, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.recs[key]; ok && !m.expired(e) {
		return false, nil
	}
	m.recs[key] = m.entry(rec, ttl)
	return true, nil
}

// Put stores rec, replacing any record for key.
func (m *MemoryStore) Put(_ context.Context, key string, rec Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[key] = m.entry(rec, ttl)
	return nil
}

// Delete removes the record for key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, key)
	return nil
}

func (m *MemoryStore) entry(rec Record, ttl time.Duration) memoryEntry {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	return memoryEntry{rec: rec, expires: exp}
}

// Key builds a namespaced key.
func (m *MemoryStore) Key(scope, id string) string {
	return buildKey(scope, id)
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}
