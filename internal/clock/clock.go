package clock

import "time"

// Clock 可注入的时间源（启发式定价里的 days_to_event 依赖 "now"）
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem 基于 time.Now 的时钟，统一返回 UTC
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed 固定时刻的时钟（测试用）
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
