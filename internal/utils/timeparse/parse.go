package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 不带时区的时间一律按 UTC 处理
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse 解析各数据源的时间编码：RFC3339、无时区时间、仅日期（UTC零点）、epoch 秒/毫秒
// 返回值统一为 UTC
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("时间为空")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 9 {
		// 13 位按毫秒
		if len(s) >= 13 {
			return time.UnixMilli(sec).UTC(), nil
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("无法解析时间: %s", s)
}
