package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/contracts"
	"github.com/techmaster-vietnam/roleapi/models"
)

const (
	keyPrefix = "roleapi:roles"
	listKey   = keyPrefix + ":all"
	// genKey tăng mỗi lần Invalidate; list đọc từ store trước khi tăng sẽ không được ghi lại
	genKey = keyPrefix + ":gen"
)

// RoleCache wraps a RoleStore with Redis caching of name lookups and the role list.
// Roles are never renamed or deleted through this API, so invalidating on
// CreateRole is enough to keep the cache coherent.
type RoleCache struct {
	next   contracts.RoleStore
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache instantiates the cache decorator. A nil client disables caching.
func NewRoleCache(next contracts.RoleStore, client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{next: next, client: client, ttl: ttl}
}

func roleKey(name string) string {
	return keyPrefix + ":name:" + name
}

// CreateRole delegates to the underlying store then drops affected keys
func (c *RoleCache) CreateRole(ctx context.Context, role *models.Role) error {
	if err := c.next.CreateRole(ctx, role); err != nil {
		return err
	}
	c.Invalidate(ctx, role.Name)
	return nil
}

// FindRoleByName returns the cached role or loads it from the store.
// Chỉ cache role tìm thấy, không cache kết quả not found.
func (c *RoleCache) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if c.get(ctx, roleKey(name), &role) {
		return &role, nil
	}

	found, err := c.next.FindRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.set(ctx, roleKey(name), found)
	return found, nil
}

// ListRoles returns the cached role list or loads it from the store.
// The loaded list is only cached if no Invalidate ran since the store read began.
func (c *RoleCache) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if c.get(ctx, listKey, &roles) {
		if roles == nil {
			roles = []models.Role{}
		}
		return roles, nil
	}

	gen, genOK := c.generation(ctx)
	roles, err := c.next.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	if genOK {
		c.setIfGeneration(ctx, listKey, roles, gen)
	}
	return roles, nil
}

// Invalidate removes the role list and the given role names from the cache
func (c *RoleCache) Invalidate(ctx context.Context, names ...string) {
	if c.client == nil {
		return
	}
	keys := make([]string, 0, len(names)+1)
	keys = append(keys, listKey)
	for _, name := range names {
		keys = append(keys, roleKey(name))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Failed to invalidate role cache").WithData(map[string]interface{}{
			"keys": keys,
		}), "RoleCache.Invalidate")
	}
}

// get trả về true khi key có trong cache và decode thành công.
// Lỗi Redis chỉ được log, request vẫn đi tiếp xuống store.
func (c *RoleCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Failed to read role cache").WithData(map[string]interface{}{
				"key": key,
			}), "RoleCache.get")
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Corrupted role cache entry").WithData(map[string]interface{}{
			"key": key,
		}), "RoleCache.get")
		return false
	}
	return true
}

func (c *RoleCache) set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Failed to write role cache").WithData(map[string]interface{}{
			"key": key,
		}), "RoleCache.set")
	}
}

// generation đọc giá trị hiện tại của genKey (0 nếu chưa có).
// false khi Redis lỗi: khi đó không ghi cache.
func (c *RoleCache) generation(ctx context.Context) (int64, bool) {
	if c.client == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Failed to read role cache generation"), "RoleCache.generation")
		return 0, false
	}
	return gen, true
}

// setIfGeneration writes key only while genKey still equals gen.
// WATCH làm transaction bị hủy nếu Invalidate chạy xen giữa.
func (c *RoleCache) setIfGeneration(ctx context.Context, key string, value interface{}, gen int64) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Failed to write role cache").WithData(map[string]interface{}{
			"key": key,
		}), "RoleCache.setIfGeneration")
	}
}
