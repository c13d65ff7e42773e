package topics

import (
	"strings"

	"github.com/ksen/caseflash/internal/models"
)

// ignoreTerms are exam/meta labels that never identify a clinical topic.
// Matching is case-insensitive substring, so "Step 2 CK" and "NBME Form 9"
// are both skipped.
var ignoreTerms = []string{
	"usmle",
	"nbme",
	"comlex",
	"step",
	"shelf",
	"board",
}

// broadSystems are coarse specialty labels, usable as a fallback bucket when
// no more specific tag exists. Matching is exact, case-insensitive.
var broadSystems = map[string]struct{}{
	"cardiology":         {},
	"pulmonology":        {},
	"gastroenterology":   {},
	"nephrology":         {},
	"neurology":          {},
	"endocrinology":      {},
	"hematology":         {},
	"oncology":           {},
	"infectious disease": {},
	"rheumatology":       {},
	"dermatology":        {},
	"psychiatry":         {},
	"pediatrics":         {},
	"obstetrics":         {},
	"gynecology":         {},
	"surgery":            {},
	"internal medicine":  {},
	"family medicine":    {},
	"emergency medicine": {},
	"urology":            {},
	"orthopedics":        {},
	"ophthalmology":      {},
	"immunology":         {},
}

func isIgnored(tag string) bool {
	lower := strings.ToLower(tag)
	for _, term := range ignoreTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func isBroadSystem(tag string) bool {
	_, ok := broadSystems[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// CanonicalTopic picks the single most specific, non-generic label from a
// question's tags. The first tag matching neither the ignore set nor the
// broad-system set wins immediately; otherwise the first broad-system tag is
// used as a fallback. Returns "" when no usable tag exists.
func CanonicalTopic(tags []string) string {
	fallback := ""
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" || isIgnored(tag) {
			continue
		}
		if isBroadSystem(tag) {
			if fallback == "" {
				fallback = tag
			}
			continue
		}
		return tag
	}
	return fallback
}

// Keys derives the aggregation bucket keys for one answered question. A
// question with both a canonical topic and clinical concepts fans out to one
// composite key per concept; this counts topic-exposures, not questions.
func Keys(tags, concepts []string) []string {
	topic := CanonicalTopic(tags)
	switch {
	case topic != "" && len(concepts) > 0:
		keys := make([]string, 0, len(concepts))
		for _, concept := range concepts {
			keys = append(keys, topic+": "+concept)
		}
		return keys
	case topic != "":
		return []string{topic}
	case len(concepts) > 0:
		return append([]string(nil), concepts...)
	default:
		return nil
	}
}

// recencyWindow bounds the per-bucket outcome buffer.
const recencyWindow = 5

// Accumulator rolls answered questions into topic buckets. Buckets are kept
// in first-seen order so downstream sorts have a deterministic starting
// point.
type Accumulator struct {
	buckets map[string]*models.TopicStat
	order   []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{buckets: map[string]*models.TopicStat{}}
}

// Record adds one outcome under every derived key for the answer.
func (a *Accumulator) Record(tags, concepts []string, correct bool) {
	for _, key := range Keys(tags, concepts) {
		a.RecordKey(key, correct)
	}
}

// RecordKey adds one outcome to a single bucket, materializing it on first
// use. The recency buffer holds the newest outcome first and drops beyond
// the window.
func (a *Accumulator) RecordKey(key string, correct bool) {
	stat, ok := a.buckets[key]
	if !ok {
		stat = &models.TopicStat{Key: key}
		a.buckets[key] = stat
		a.order = append(a.order, key)
	}
	stat.TotalCount++
	if correct {
		stat.CorrectCount++
	}
	stat.Recent = append([]bool{correct}, stat.Recent...)
	if len(stat.Recent) > recencyWindow {
		stat.Recent = stat.Recent[:recencyWindow]
	}
}

// Buckets returns the accumulated stats in first-seen order. Only buckets
// with at least one observation exist, so totals are always positive.
func (a *Accumulator) Buckets() []models.TopicStat {
	out := make([]models.TopicStat, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.buckets[key])
	}
	return out
}
