package memory

import "sync/atomic"

// Sequence 是按实体类型递增的 ID 分配器，从 1 开始，删除不会回收 ID。
type Sequence struct {
	last atomic.Uint64
}

// Next 分配下一个 ID，并发安全。
func (s *Sequence) Next() uint {
	return uint(s.last.Add(1))
}

// Last 返回最近分配的 ID，尚未分配时为 0。
func (s *Sequence) Last() uint {
	return uint(s.last.Load())
}
