package card

import "testing"

// ✅ 测试整副牌完整性
func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}

	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
		if c.Rank < 2 || c.Rank > 14 || c.Suit < 0 || c.Suit > 3 {
			t.Fatalf("card out of range: %v", c)
		}
	}
}

// ✅ 测试摊牌比较：先点数后花色，均为降序
func TestCompare(t *testing.T) {
	high := Card{Suit: 0, Rank: 14}
	low := Card{Suit: 3, Rank: 2}
	if Compare(high, low) <= 0 {
		t.Fatalf("ace should beat deuce regardless of suit")
	}

	// 同点数比花色
	spade := Card{Suit: 3, Rank: 9}
	club := Card{Suit: 0, Rank: 9}
	if Compare(spade, club) <= 0 {
		t.Fatalf("same rank should fall back to suit")
	}
	if Compare(club, spade) >= 0 {
		t.Fatalf("comparison should be antisymmetric")
	}
}

func TestCardString(t *testing.T) {
	c := Card{Suit: 3, Rank: 14}
	if c.String() != "A♠" {
		t.Fatalf("expected A♠, got %s", c.String())
	}
}
