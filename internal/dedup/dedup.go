package dedup

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

const (
	// VenueSimilarityThreshold 场馆名相似度超过该值视为同一场馆
	VenueSimilarityThreshold = 0.8
	// VenueMatchedNameThreshold 场馆一致时名称相似度阈值
	VenueMatchedNameThreshold = 0.6
	// StrictNameThreshold 场馆不一致或未知时名称相似度阈值
	StrictNameThreshold = 0.85
	// PricedBonus 已有价格的候选优先保留
	PricedBonus = 100
)

// sourceBonus 数据源优先级加分（数据质量由高到低）
var sourceBonus = map[model.SourceType]int{
	model.SourceSeatGeek:     10,
	model.SourceTicketmaster: 5,
	model.SourceEventbrite:   0,
}

var (
	parenRe      = regexp.MustCompile(`\(.*?\)`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize 比较前的名称规范化：小写、去括号内容、去标点、合并空白
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = parenRe.ReplaceAllString(s, "")
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Priority 合并时的保留优先级
func Priority(e *model.CanonicalEvent) int {
	score := 0
	if e.PriceLow != nil {
		score += PricedBonus
	}
	score += sourceBonus[e.OriginSource()]
	return score
}

// Rank 按优先级降序排列，同分按 ID 升序（结果与输入顺序无关）
func Rank(events []*model.CanonicalEvent) []*model.CanonicalEvent {
	ranked := make([]*model.CanonicalEvent, len(events))
	copy(ranked, events)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := Priority(ranked[i]), Priority(ranked[j])
		if pi != pj {
			return pi > pj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// SameDay 两个时间是否落在同一 UTC 自然日
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Deduper 跨数据源的模糊去重
type Deduper struct {
	sim Similarity
}

// New sim 为空时使用 difflib 序列相似度
func New(sim Similarity) *Deduper {
	if sim == nil {
		sim = SequenceRatio{}
	}
	return &Deduper{sim: sim}
}

// AreDuplicates 判断两条记录是否为同一场真实活动
func (d *Deduper) AreDuplicates(a, b *model.CanonicalEvent) bool {
	if !SameDay(a.Date, b.Date) {
		return false
	}

	nameA, nameB := Normalize(a.Name), Normalize(b.Name)
	// 名称归一化后为空（纯非拉丁字符、仅括号内容）时无法比较，视为不同活动
	if nameA == "" || nameB == "" {
		return false
	}
	if d.venuesMatch(a.Venue, b.Venue) {
		if containsEither(nameA, nameB) {
			return true
		}
		return d.sim.Ratio(nameA, nameB) > VenueMatchedNameThreshold
	}
	if nameA == nameB {
		return true
	}
	return d.sim.Ratio(nameA, nameB) > StrictNameThreshold
}

// venuesMatch 两端场馆均已知才可能匹配
func (d *Deduper) venuesMatch(a, b string) bool {
	if !knownVenue(a) || !knownVenue(b) {
		return false
	}
	va, vb := Normalize(a), Normalize(b)
	if va == "" || vb == "" {
		return false
	}
	if va == vb || containsEither(va, vb) {
		return true
	}
	return d.sim.Ratio(va, vb) > VenueSimilarityThreshold
}

// Dedupe 先排序，再贪心保留：与已保留代表均不重复的候选才保留，重复项直接丢弃不合并
func (d *Deduper) Dedupe(events []*model.CanonicalEvent) (kept []*model.CanonicalEvent, dropped int) {
	for _, candidate := range Rank(events) {
		duplicate := false
		for _, rep := range kept {
			if d.AreDuplicates(candidate, rep) {
				duplicate = true
				break
			}
		}
		if duplicate {
			dropped++
			continue
		}
		kept = append(kept, candidate)
	}
	return kept, dropped
}

func knownVenue(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != model.UnknownVenue
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
