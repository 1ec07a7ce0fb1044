package assets

import (
	"crypto/sha512"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ChecksumMemo computes SHA-512 checksums of assets once per path, even when
// many pages ask for the same download concurrently. Failed reads are not
// remembered.
type ChecksumMemo struct {
	store Store

	group singleflight.Group
	mu    sync.RWMutex
	sums  map[string]string
}

// NewChecksumMemo returns a memo reading asset bytes from store.
func NewChecksumMemo(store Store) *ChecksumMemo {
	return &ChecksumMemo{store: store, sums: make(map[string]string)}
}

// Checksum returns the hex SHA-512 of a's default variant.
func (m *ChecksumMemo) Checksum(a Asset) (string, error) {
	key := a.Path()
	m.mu.RLock()
	sum, ok := m.sums[key]
	m.mu.RUnlock()
	if ok {
		return sum, nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		data, err := m.store.Read(a)
		if err != nil {
			return "", err
		}
		digest := sha512.Sum512(data)
		sum := hex.EncodeToString(digest[:])
		m.mu.Lock()
		m.sums[key] = sum
		m.mu.Unlock()
		return sum, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
