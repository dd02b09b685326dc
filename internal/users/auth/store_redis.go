// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

// RedisAllowlist implements [Allowlist] as a single Redis hash of email → role.
type RedisAllowlist struct {
	client *redis.Client
}

// NewRedisAllowlist creates a Redis-backed allowlist.
func NewRedisAllowlist(client *redis.Client) *RedisAllowlist {
	return &RedisAllowlist{client: client}
}

func (repository *RedisAllowlist) Role(context context.Context, email string) (sec.UserRole, bool, error) {
	raw, err := repository.client.HGet(context, constants.RedisKeyAdminAllowlist, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_allowlist_get_failed: %w", err)
	}

	// An entry with an unknown role grants nothing
	role, ok := sec.ParseRole(raw)
	return role, ok, nil
}

func (repository *RedisAllowlist) List(context context.Context) ([]Member, error) {
	entries, err := repository.client.HGetAll(context, constants.RedisKeyAdminAllowlist).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_allowlist_list_failed: %w", err)
	}

	members := make([]Member, 0, len(entries))
	for email, role := range entries {
		members = append(members, Member{Email: email, Role: sec.UserRole(role)})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Email < members[j].Email })

	return members, nil
}

func (repository *RedisAllowlist) Grant(context context.Context, email string, role sec.UserRole) error {
	if err := repository.client.HSet(context, constants.RedisKeyAdminAllowlist, email, string(role)).Err(); err != nil {
		return fmt.Errorf("redis_allowlist_grant_failed: %w", err)
	}
	return nil
}

func (repository *RedisAllowlist) Revoke(context context.Context, email string) error {
	removed, err := repository.client.HDel(context, constants.RedisKeyAdminAllowlist, email).Result()
	if err != nil {
		return fmt.Errorf("redis_allowlist_revoke_failed: %w", err)
	}
	if removed == 0 {
		return apperr.NotFound("Allowlist entry")
	}
	return nil
}
