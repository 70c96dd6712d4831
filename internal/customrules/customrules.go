package customrules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"typoguard/internal/detector"
)

// DefaultKey is the Redis hash holding custom rules.
const DefaultKey = "custom_rules"

var ErrInvalidRule = errors.New("invalid rule")

// Store keeps user-defined rules in a Redis hash keyed by the flawed phrase.
type Store struct {
	client *redis.Client
	key    string
}

type entry struct {
	Corrected string            `json:"corrected"`
	Category  detector.Category `json:"type"`
}

// New creates a Store with the provided Redis client. An empty key selects DefaultKey.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Add inserts or replaces a rule.
func (s *Store) Add(ctx context.Context, r detector.Rule) error {
	if strings.TrimSpace(r.Original) == "" || strings.TrimSpace(r.Corrected) == "" {
		return fmt.Errorf("%w: original and corrected are required", ErrInvalidRule)
	}
	b, err := json.Marshal(entry{Corrected: r.Corrected, Category: r.Category})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return s.client.HSet(ctx, s.key, r.Original, b).Err()
}

// Remove deletes the rule for original. Removing a missing rule is not an error.
func (s *Store) Remove(ctx context.Context, original string) error {
	return s.client.HDel(ctx, s.key, original).Err()
}

// All returns every stored rule ordered by original.
func (s *Store) All(ctx context.Context) ([]detector.Rule, error) {
	m, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	rules := make([]detector.Rule, 0, len(m))
	for original, raw := range m {
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Printf("customrules: skipping %q: %v", original, err)
			continue
		}
		rules = append(rules, detector.Rule{Original: original, Corrected: e.Corrected, Category: e.Category})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Original < rules[j].Original })
	return rules, nil
}
