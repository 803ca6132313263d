package pagination

import (
	"errors"
	"strconv"
)

// PageSize 信息流与评论流的固定页大小
const PageSize = 25

// ErrMalformedCursor 游标格式非法（区别于"无游标"）
var ErrMalformedCursor = errors.New("malformed cursor")

// ParseCursor 解析客户端游标。空串表示首页，返回 0（无上界）。
// 游标是上一页最后一条记录主键的十进制字面量，解析失败按客户端错误处理，
// 绝不静默降级为首页。
func ParseCursor(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrMalformedCursor
	}
	return v, nil
}

// FormatCursor 生成下一页游标
func FormatCursor(key int64) string {
	return strconv.FormatInt(key, 10)
}

// Page 一页结果。NextCursor 为 nil 表示流已结束。
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
}

// New 从 limit+1 超量读的结果装配一页：多出的一条被裁掉，
// 新末尾记录的键成为下一页游标。keyOf 返回元素的分页键。
func New[T any](items []T, limit int, keyOf func(T) int64) Page[T] {
	if len(items) > limit {
		items = items[:limit]
		cur := FormatCursor(keyOf(items[len(items)-1]))
		return Page[T]{Items: items, NextCursor: &cur}
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items}
}
