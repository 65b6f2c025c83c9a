package dealer

import (
	"math/rand"

	"MontyPoker/internal/game/card"
)

// Dealer 只负责随机性：洗牌与候选池抽样，不做任何规则判断。
// 熵源通过 seed 注入：生产环境由 main 用 crypto/rand 取种，测试用固定种子。
// 注意：源部署环境的熵来自链上区块元数据，对控制出块时序的一方是可预测的；
// 换了部署环境后若随机性是安全属性，种子必须来自可验证的外部源。
type Dealer struct {
	rnd *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// ShuffledDeck 生成一副新牌并做 Fisher-Yates 洗牌
func (d *Dealer) ShuffledDeck() []card.Card {
	deck := card.NewDeck()
	for i := len(deck) - 1; i > 0; i-- {
		j := d.rnd.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// SampleN 从候选池中无放回抽取 n 个下标；len(pool) < n 时返回 nil。
// pool 不会被修改。
func (d *Dealer) SampleN(pool []int, n int) []int {
	if len(pool) < n {
		return nil
	}
	tmp := make([]int, len(pool))
	copy(tmp, pool)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		j := d.rnd.Intn(len(tmp))
		out = append(out, tmp[j])
		tmp[j] = tmp[len(tmp)-1]
		tmp = tmp[:len(tmp)-1]
	}
	return out
}

// PickOne 均匀抽取单个下标；空池返回 -1
func (d *Dealer) PickOne(pool []int) int {
	if len(pool) == 0 {
		return -1
	}
	return pool[d.rnd.Intn(len(pool))]
}
