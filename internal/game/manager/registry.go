package manager

import "context"

// Registry 大厅登记表的抽象：哪些对局当前可加入/可旁观。
// cleanup 时摘除；大厅进程只读 List。
type Registry interface {
	// Add 登记一局
	Add(ctx context.Context, gameID uint64) error
	// Remove 摘除一局（cleanup 或异常回收）
	Remove(ctx context.Context, gameID uint64) error
	// List 当前登记的全部对局
	List(ctx context.Context) ([]uint64, error)
}
