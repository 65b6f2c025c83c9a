package dealer

import (
	"testing"
	"time"

	"MontyPoker/internal/game/card"
)

// 工具：检查是否有重复牌
func hasDuplicates(cards []card.Card) bool {
	seen := make(map[card.Card]bool)
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

// ✅ 测试洗牌后整副牌仍完整
func TestShuffledDeck(t *testing.T) {
	d := NewDealer(time.Now().UnixNano())
	deck := d.ShuffledDeck()

	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}
	if hasDuplicates(deck) {
		t.Fatalf("deck should not contain duplicates")
	}
}

// ✅ 测试洗牌确定性（种子注入）
func TestShuffleDeterministic(t *testing.T) {
	d1 := NewDealer(42)
	d2 := NewDealer(42)
	deck1 := d1.ShuffledDeck()
	deck2 := d2.ShuffledDeck()

	// 因为种子相同，所以序列应相同
	for i := range deck1 {
		if deck1[i] != deck2[i] {
			t.Fatalf("expected identical decks for same seed")
		}
	}

	// 新种子应生成不同序列
	d3 := NewDealer(99)
	deck3 := d3.ShuffledDeck()
	diff := false
	for i := range deck1 {
		if deck1[i] != deck3[i] {
			diff = true
			break
		}
	}
	if !diff {
		t.Fatalf("expected deck with different seed to differ")
	}
}

// ✅ 测试无放回抽样：数量正确、不重复、全部来自候选池、池本身不被改动
func TestSampleN(t *testing.T) {
	d := NewDealer(1)
	pool := []int{5, 9, 12, 30, 41}
	orig := append([]int(nil), pool...)

	picks := d.SampleN(pool, 2)
	if len(picks) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picks))
	}
	if picks[0] == picks[1] {
		t.Fatalf("sample must be without replacement")
	}
	inPool := func(v int) bool {
		for _, p := range pool {
			if p == v {
				return true
			}
		}
		return false
	}
	if !inPool(picks[0]) || !inPool(picks[1]) {
		t.Fatalf("picks must come from the pool")
	}
	for i := range pool {
		if pool[i] != orig[i] {
			t.Fatalf("pool must not be mutated")
		}
	}

	// 池子不够大时返回 nil
	if d.SampleN([]int{1}, 2) != nil {
		t.Fatalf("expected nil for undersized pool")
	}
}

// ✅ 测试单抽
func TestPickOne(t *testing.T) {
	d := NewDealer(2)
	if d.PickOne(nil) != -1 {
		t.Fatalf("empty pool should return -1")
	}
	if got := d.PickOne([]int{7}); got != 7 {
		t.Fatalf("single element pool should return it, got %d", got)
	}

	pool := []int{1, 2, 3}
	v := d.PickOne(pool)
	if v != 1 && v != 2 && v != 3 {
		t.Fatalf("pick outside pool: %d", v)
	}
}
