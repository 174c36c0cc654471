package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const versionKeyPrefix = "availability:version:"

func VersionKey(mentorID uuid.UUID) string {
	return versionKeyPrefix + mentorID.String()
}

// Versions keeps availability version tokens outside the LRU so eviction can never reset one.
type Versions struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func NewVersions() *Versions {
	return &Versions{tokens: make(map[string]int64)}
}

func (v *Versions) Current(_ context.Context, mentorID uuid.UUID) (int64, error) {
	key := VersionKey(mentorID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if cur, ok := v.tokens[key]; ok {
		return cur, nil
	}
	v.tokens[key] = 1
	return 1, nil
}

func (v *Versions) Bump(_ context.Context, mentorID uuid.UUID) (int64, error) {
	key := VersionKey(mentorID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.tokens[key]; !ok {
		v.tokens[key] = 1
	}
	v.tokens[key]++
	return v.tokens[key], nil
}
