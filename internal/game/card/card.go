package card

import "fmt"

// Card 定义 (suit 0-3, rank 2-14)，构造后不可变
type Card struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

// NewDeck 返回未洗牌的整副 52 张
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := 0; s < 4; s++ {
		for r := 2; r <= 14; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Compare 摊牌比较规则：先比点数，点数相同比花色，均为降序。
// 返回 >0 表示 a 胜，<0 表示 b 胜；同一副牌中不会出现 0。
func Compare(a, b Card) int {
	if a.Rank != b.Rank {
		return a.Rank - b.Rank
	}
	return a.Suit - b.Suit
}

func (c Card) String() string {
	suits := []string{"♣", "♦", "♥", "♠"}
	ranks := map[int]string{
		11: "J",
		12: "Q",
		13: "K",
		14: "A",
	}
	rankStr, ok := ranks[c.Rank]
	if !ok {
		rankStr = fmt.Sprintf("%d", c.Rank)
	}
	suitStr := "?"
	if c.Suit >= 0 && c.Suit < len(suits) {
		suitStr = suits[c.Suit]
	}
	return rankStr + suitStr
}
