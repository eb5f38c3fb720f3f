package share

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLinkNotFound = errors.New("short link not found")

const (
	linkKeyPrefix = "pulseid:link:"
	codeAlphabet  = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength    = 8
)

// LinkStore maps short codes to full viewer URLs.
type LinkStore interface {
	Save(ctx context.Context, url string, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, code string) (string, error)
}

type RedisLinkStore struct {
	client *redis.Client
}

func NewRedisLinkStore(client *redis.Client) *RedisLinkStore {
	return &RedisLinkStore{client: client}
}

// Save stores url under a fresh random code. SETNX guards against the
// rare collision; a handful of retries is plenty for this alphabet.
func (s *RedisLinkStore) Save(ctx context.Context, url string, ttl time.Duration) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := newCode()
		if err != nil {
			return "", err
		}
		ok, err := s.client.SetNX(ctx, linkKeyPrefix+code, url, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store short link: %w", err)
		}
		if ok {
			return code, nil
		}
	}
	return "", errors.New("store short link: no free code after retries")
}

func (s *RedisLinkStore) Resolve(ctx context.Context, code string) (string, error) {
	url, err := s.client.Get(ctx, linkKeyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrLinkNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve short link: %w", err)
	}
	return url, nil
}

func newCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func validCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(codeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
