package search

import "unicode"

// alignment 查詢字串在目標字串中最佳近似位置；start/end 為 rune 位移，[start, end)
type alignment struct {
	errors int
	start  int
	end    int
}

type cell struct {
	cost  int
	start int
}

// bestAlignment 以半全域編輯距離找出 pattern 對 text 任一子字串的最小錯誤數。
// 不限定位置，相同錯誤數時取最早結束的位置。
func bestAlignment(pattern, text []rune) (alignment, bool) {
	m, n := len(pattern), len(text)
	if m == 0 || n == 0 {
		return alignment{}, false
	}

	prev := make([]cell, n+1)
	cur := make([]cell, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = cell{cost: 0, start: j}
	}

	for i := 1; i <= m; i++ {
		cur[0] = cell{cost: i, start: 0}
		for j := 1; j <= n; j++ {
			sub := prev[j-1].cost
			if pattern[i-1] != text[j-1] {
				sub++
			}
			best := cell{cost: sub, start: prev[j-1].start}
			if del := prev[j].cost + 1; del < best.cost {
				best = cell{cost: del, start: prev[j].start}
			}
			if ins := cur[j-1].cost + 1; ins < best.cost {
				best = cell{cost: ins, start: cur[j-1].start}
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	found := alignment{errors: m + 1}
	for j := 1; j <= n; j++ {
		if prev[j].cost < found.errors {
			found = alignment{errors: prev[j].cost, start: prev[j].start, end: j}
		}
	}
	if found.errors > m {
		return alignment{}, false
	}
	return found, true
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
