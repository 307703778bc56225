package services

import (
	"context"
	"time"

	"roomadmin/dto"

	"github.com/redis/go-redis/v9"
)

const lastFiltersTTL = 30 * time.Minute

// SaveLastFilters nhớ filter danh sách phòng gần nhất của một phiên dashboard
func SaveLastFilters(ctx context.Context, rdb *redis.Client, key string, filters *dto.RoomFilter) error {
	return SetToRedis(ctx, rdb, "last_filters:"+key, filters, lastFiltersTTL)
}

// GetLastFilters trả nil nếu phiên chưa có filter nào
func GetLastFilters(ctx context.Context, rdb *redis.Client, key string) (*dto.RoomFilter, error) {
	var filters dto.RoomFilter
	found, err := GetFromRedis(ctx, rdb, "last_filters:"+key, &filters)
	if err != nil || !found {
		return nil, err
	}
	return &filters, nil
}

func ClearLastFilters(ctx context.Context, rdb *redis.Client, key string) error {
	return DeleteFromRedis(ctx, rdb, "last_filters:"+key)
}

// MergeFilters gộp filter cũ với filter mới, giá trị mới được ưu tiên
func MergeFilters(old *dto.RoomFilter, new *dto.RoomFilter) *dto.RoomFilter {
	if old == nil {
		return new
	}
	new.Status = orIntPointer(new.Status, old.Status)
	new.Name = orString(new.Name, old.Name)
	new.Area = orString(new.Area, old.Area)
	new.Tags = mergeUniqueStrings(old.Tags, new.Tags)

	// người dùng nhập lại khoảng giá mâu thuẫn với khoảng cũ
	if new.MinPrice != nil && old.MaxPrice != nil && *new.MinPrice > *old.MaxPrice {
		new.MaxPrice = nil
	} else {
		new.MaxPrice = orFloatPointer(new.MaxPrice, old.MaxPrice)
	}

	if new.MaxPrice != nil && old.MinPrice != nil && *new.MaxPrice < *old.MinPrice {
		new.MinPrice = nil
	} else {
		new.MinPrice = orFloatPointer(new.MinPrice, old.MinPrice)
	}
	return new
}

func orString(newVal, oldVal string) string {
	if newVal != "" {
		return newVal
	}
	return oldVal
}

func orIntPointer(newVal, oldVal *int) *int {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func orFloatPointer(newVal, oldVal *float64) *float64 {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func mergeUniqueStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, val := range a {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	for _, val := range b {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
