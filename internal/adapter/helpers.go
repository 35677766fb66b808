package adapter

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

// OrDefault 空字符串时使用兜底值
func OrDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// PriceRange 规范化价格区间：负数视为未知，高低颠倒时交换，保证 low <= high
func PriceRange(low, high *float64) (*float64, *float64) {
	if low != nil && *low < 0 {
		low = nil
	}
	if high != nil && *high < 0 {
		high = nil
	}
	if low != nil && high != nil && *low > *high {
		low, high = high, low
	}
	return low, high
}

// Capacity 场馆容量，<=0 视为未知
func Capacity(c *int) *int {
	if c == nil || *c <= 0 {
		return nil
	}
	return model.IntPtr(*c)
}

// CheckStatus 非 2xx 统一转为 ErrSourceStatus（附带少量响应体便于排查）
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("%w: %d %s", model.ErrSourceStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// CloseBody 关闭响应体（忽略错误）
func CloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}
}
