// Package aggregate computes group-by counts over the dataset.
package aggregate

import (
	"sort"
	"strings"

	"sih-scout/models"
)

// UnknownKey is the bucket for records missing a geographic field.
// Such records are counted here, never dropped.
const UnknownKey = "unknown"

// Count is one group with its team count. Slices of Count are ranked
// by count descending; ties keep the first-occurrence order of the
// group in the input.
type Count struct {
	Key   string `yaml:"key"`
	Count int    `yaml:"count"`
}

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = UnknownKey
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns groups sorted by count descending. Building the
// slice in insertion order and sorting stably gives the tie-break
// guarantee for free.
func (c *counter) ranked() []Count {
	out := make([]Count, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, Count{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// ByState counts teams per state.
func ByState(records []models.TeamRecord) []Count {
	c := newCounter()
	for _, r := range records {
		c.add(r.State)
	}
	return c.ranked()
}

// ByCity counts teams per city across all states.
func ByCity(records []models.TeamRecord) []Count {
	c := newCounter()
	for _, r := range records {
		c.add(r.City)
	}
	return c.ranked()
}

// CitiesWithin counts teams per city for a single state.
func CitiesWithin(records []models.TeamRecord, state string) []Count {
	c := newCounter()
	for _, r := range records {
		key := strings.TrimSpace(r.State)
		if key == "" {
			key = UnknownKey
		}
		if key != state {
			continue
		}
		c.add(r.City)
	}
	return c.ranked()
}

// CrossStateCity counts teams per (state, city) pair, keyed by state.
func CrossStateCity(records []models.TeamRecord) map[string]map[string]int {
	cross := make(map[string]map[string]int)
	for _, r := range records {
		state := strings.TrimSpace(r.State)
		if state == "" {
			state = UnknownKey
		}
		city := strings.TrimSpace(r.City)
		if city == "" {
			city = UnknownKey
		}
		if cross[state] == nil {
			cross[state] = make(map[string]int)
		}
		cross[state][city]++
	}
	return cross
}

// Top limits a ranked slice to its first n groups.
func Top(counts []Count, n int) []Count {
	if n < 0 {
		n = 0
	}
	if len(counts) < n {
		n = len(counts)
	}
	return counts[:n]
}

// Total sums the counts of all groups. For any grouping of the same
// records this equals the record count.
func Total(counts []Count) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
