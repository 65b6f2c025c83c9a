package manager

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type redisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry redis 版登记表，大厅进程跨服务读同一个 set
func NewRedisRegistry(rdb *redis.Client) Registry {
	return &redisRegistry{rdb: rdb}
}

// key 约定：
//
//	set: lobby:open -> Set(gameID,...)
const openKey = "lobby:open"

func (r *redisRegistry) Add(ctx context.Context, gameID uint64) error {
	return r.rdb.SAdd(ctx, openKey, strconv.FormatUint(gameID, 10)).Err()
}

func (r *redisRegistry) Remove(ctx context.Context, gameID uint64) error {
	return r.rdb.SRem(ctx, openKey, strconv.FormatUint(gameID, 10)).Err()
}

func (r *redisRegistry) List(ctx context.Context) ([]uint64, error) {
	members, err := r.rdb.SMembers(ctx, openKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			// 脏数据跳过，不让一条坏记录毁掉整个列表
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
