package classify

import (
	"math"

	"mapforge/pkg/game/level"
)

// balancer moves rooms out of over-represented types. Hard caps are
// resolved before soft targets, and only into types the room is eligible
// for and that stay within their own limit after the move.
type balancer struct {
	rules  []Rule
	scores scoreTable
	types  []level.RoomType
	locked []bool
	counts map[level.RoomType]int
	index  map[level.RoomType]int
}

func newBalancer(rules []Rule, scores scoreTable) *balancer {
	b := &balancer{
		rules:  rules,
		scores: scores,
		types:  make([]level.RoomType, len(scores)),
		locked: make([]bool, len(scores)),
		counts: make(map[level.RoomType]int),
		index:  make(map[level.RoomType]int, len(rules)),
	}
	for i, r := range rules {
		b.index[r.Type] = i
	}
	return b
}

func (b *balancer) ruleIndex(t level.RoomType) int {
	if i, ok := b.index[t]; ok {
		return i
	}
	return -1
}

func (b *balancer) assign(room int, t level.RoomType, locked bool) {
	b.types[room] = t
	b.locked[room] = locked
	b.counts[t]++
}

// quota is ceil(fraction·n), with a small epsilon so 0.4·10 stays 4.
func quota(fraction float64, n int) int {
	return int(math.Ceil(fraction*float64(n) - 1e-9))
}

func (b *balancer) hardLimit(r Rule) int {
	n := len(b.types)
	if r.MaxPercent <= 0 {
		return n
	}
	return quota(r.MaxPercent, n)
}

func (b *balancer) softLimit(r Rule) int {
	hard := b.hardLimit(r)
	if r.TargetPercent <= 0 {
		return hard
	}
	return min(hard, quota(r.TargetPercent+r.Tolerance, len(b.types)))
}

// balance runs both phases and returns the number of moves made. The total
// is bounded by rooms × rules.
func (b *balancer) balance() int {
	budget := len(b.types) * len(b.rules)
	moves := b.phase(b.hardLimit, budget)
	return moves + b.phase(b.softLimit, budget-moves)
}

func (b *balancer) phase(limit func(Rule) int, budget int) int {
	moves := 0
	stuck := make([]bool, len(b.rules))
	for moves < budget {
		over := -1
		for i, r := range b.rules {
			if !stuck[i] && b.counts[r.Type] > limit(r) {
				over = i
				break
			}
		}
		if over < 0 {
			break
		}
		if !b.moveOne(over, limit) {
			stuck[over] = true
			continue
		}
		moves++
	}
	return moves
}

// moveOne moves the worst-fit room of rule over to its next-best type. The
// worst fit is the room losing the least score by moving, lowest id first.
func (b *balancer) moveOne(over int, limit func(Rule) int) bool {
	from := b.rules[over].Type
	bestRoom, bestTarget := -1, -1
	bestMargin := math.Inf(1)

	for room, t := range b.types {
		if t != from || b.locked[room] {
			continue
		}
		target := -1
		for r, rule := range b.rules {
			if r == over || !b.scores.eligible(room, r) || b.counts[rule.Type]+1 > limit(rule) {
				continue
			}
			if target < 0 || b.scores[room][r] > b.scores[room][target] {
				target = r
			}
		}
		if target < 0 {
			continue
		}
		margin := b.scores[room][over] - b.scores[room][target]
		if math.IsInf(b.scores[room][over], -1) {
			margin = math.Inf(-1)
		}
		if bestRoom < 0 || margin < bestMargin {
			bestRoom, bestTarget, bestMargin = room, target, margin
		}
	}
	if bestRoom < 0 {
		return false
	}

	to := b.rules[bestTarget].Type
	b.counts[from]--
	b.counts[to]++
	b.types[bestRoom] = to
	return true
}
