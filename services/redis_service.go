package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomadmin/constants"
	"roomadmin/dto"
	"roomadmin/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis đọc JSON từ Redis vào target, found=false nếu key không tồn tại
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	cachedData, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(cachedData), target); err != nil {
		return false, err
	}
	return true, nil
}

// SetToRedis lưu value dạng JSON
func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

// DeleteFromRedis xóa các key
func DeleteFromRedis(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// RedisRoomCache implement RoomCache. Danh sách được cache theo filter và
// bị xóa toàn bộ khi có thay đổi bất kỳ room nào.
type RedisRoomCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRoomCache(rdb *redis.Client, ttl time.Duration) *RedisRoomCache {
	if ttl <= 0 {
		ttl = constants.RoomCacheTTL
	}
	return &RedisRoomCache{rdb: rdb, prefix: "roomadmin:rooms:", ttl: ttl}
}

func (c *RedisRoomCache) roomKey(id int64) string {
	return fmt.Sprintf("%sroom:%d", c.prefix, id)
}

func (c *RedisRoomCache) listKey(filter dto.RoomFilter) string {
	var b strings.Builder
	b.WriteString(c.prefix + "list:")
	if filter.Status != nil {
		fmt.Fprintf(&b, "s=%d;", *filter.Status)
	}
	fmt.Fprintf(&b, "n=%s;a=%s;", strings.ToLower(filter.Name), filter.Area)
	if filter.MinPrice != nil {
		fmt.Fprintf(&b, "min=%g;", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		fmt.Fprintf(&b, "max=%g;", *filter.MaxPrice)
	}
	fmt.Fprintf(&b, "t=%s;p=%t;%d/%d", strings.Join(filter.Tags, ","), filter.WithPackages, filter.Page, filter.Limit)
	return b.String()
}

func (c *RedisRoomCache) GetRoom(ctx context.Context, id int64) (*models.Room, bool, error) {
	var room models.Room
	found, err := GetFromRedis(ctx, c.rdb, c.roomKey(id), &room)
	if err != nil || !found {
		return nil, false, err
	}
	return &room, true, nil
}

func (c *RedisRoomCache) SetRoom(ctx context.Context, room *models.Room) error {
	return SetToRedis(ctx, c.rdb, c.roomKey(room.ID), room, c.ttl)
}

func (c *RedisRoomCache) GetList(ctx context.Context, filter dto.RoomFilter) (*dto.Page[models.Room], bool, error) {
	var page dto.Page[models.Room]
	found, err := GetFromRedis(ctx, c.rdb, c.listKey(filter), &page)
	if err != nil || !found {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *RedisRoomCache) SetList(ctx context.Context, filter dto.RoomFilter, page *dto.Page[models.Room]) error {
	return SetToRedis(ctx, c.rdb, c.listKey(filter), page, c.ttl)
}

// Invalidate xóa cache của room và mọi danh sách
func (c *RedisRoomCache) Invalidate(ctx context.Context, id int64) error {
	keys := []string{c.roomKey(id)}
	iter := c.rdb.Scan(ctx, 0, c.prefix+"list:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return DeleteFromRedis(ctx, c.rdb, keys...)
}
