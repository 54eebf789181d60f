package service

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/ivanoskov/deal_bot/internal/model"
)

// IntentCount показывает, сколько раз сработало намерение
type IntentCount struct {
	Intent model.Intent
	Count  int
}

// Stats считает сработавшие намерения с момента запуска
type Stats struct {
	mu     sync.Mutex
	counts map[model.Intent]int
}

func NewStats() *Stats {
	return &Stats{counts: make(map[model.Intent]int)}
}

func (s *Stats) Record(intent model.Intent) {
	s.mu.Lock()
	s.counts[intent]++
	s.mu.Unlock()
}

// Snapshot возвращает счетчики по убыванию, при равенстве по имени
func (s *Stats) Snapshot() []IntentCount {
	s.mu.Lock()
	out := lo.MapToSlice(s.counts, func(intent model.Intent, count int) IntentCount {
		return IntentCount{Intent: intent, Count: count}
	})
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Intent < out[j].Intent
	})
	return out
}

func (s *Stats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Sum(lo.Values(s.counts))
}
