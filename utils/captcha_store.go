package utils

import (
	"context"
	"time"

	"github.com/mojocn/base64Captcha"
)

// redisCaptchaStore implements base64Captcha.Store backed by Redis.
type redisCaptchaStore struct {
	ttl time.Duration
}

// NewRedisCaptchaStore returns a store that keeps answers for ttl (10 minutes when unset).
func NewRedisCaptchaStore(ttl time.Duration) base64Captcha.Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisCaptchaStore{ttl: ttl}
}

func (s *redisCaptchaStore) key(id string) string {
	return "portfolio:captcha:" + id
}

func (s *redisCaptchaStore) Set(id string, value string) error {
	rc := GetRedis()
	if rc == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return rc.Set(ctx, s.key(id), value, s.ttl).Err()
}

func (s *redisCaptchaStore) Get(id string, clear bool) string {
	rc := GetRedis()
	if rc == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if clear {
		v, err := rc.GetDel(ctx, s.key(id)).Result()
		if err != nil {
			return ""
		}
		return v
	}
	v, err := rc.Get(ctx, s.key(id)).Result()
	if err != nil {
		return ""
	}
	return v
}

func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	v := s.Get(id, clear)
	return v != "" && v == answer
}
