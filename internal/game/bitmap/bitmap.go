package bitmap

import "math/bits"

// Bits 是 52 位的牌位集合，bit i 对应牌堆下标 i。
// 本包只做纯位运算，不含任何游戏语义；前置条件由调用方保证
// （例如 Set 只应在 Has 为 false 时调用）。
type Bits uint64

// Has 判断下标 idx 是否已置位
func (b Bits) Has(idx int) bool {
	return b&(1<<uint(idx)) != 0
}

// Set 置位
func (b Bits) Set(idx int) Bits {
	return b | (1 << uint(idx))
}

// Clear 清除单个位
func (b Bits) Clear(idx int) Bits {
	return b &^ (1 << uint(idx))
}

// Reset 清空全部位
func (b Bits) Reset() Bits {
	return 0
}

// Count 已置位数量
func (b Bits) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Indices 返回 [0,n) 范围内所有已置位的下标，升序
func (b Bits) Indices(n int) []int {
	out := make([]int, 0, b.Count())
	for i := 0; i < n; i++ {
		if b.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// FreeIndices 返回 [0,n) 范围内在 b 和 other 中都未置位的下标，
// 用于抽取"既未分配也未揭示"的候选池
func FreeIndices(b, other Bits, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !b.Has(i) && !other.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
