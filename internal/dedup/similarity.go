package dedup

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity 字符串相似度策略，返回 [0,1]
type Similarity interface {
	Ratio(a, b string) float64
}

// SequenceRatio difflib 序列匹配相似度：2*M/T（按字符切分）
type SequenceRatio struct{}

func (SequenceRatio) Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

func splitChars(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "")
}
