// Package social answers friend and common-friend queries over the friendship relation.
package social

import (
	"context"
	"sort"
)

// Graph is the part of the friendship store the queries need.
type Graph interface {
	GetFriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

// FriendIDs 返回 userID 的好友，按 ID 升序，不包含 userID 本身。
func FriendIDs(ctx context.Context, g Graph, userID uint) ([]uint, error) {
	ids, err := g.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return normalize(ids, userID), nil
}

// CommonFriendIDs 返回两人好友集合的交集，结果中永远不包含 a 和 b。
func CommonFriendIDs(ctx context.Context, g Graph, a, b uint) ([]uint, error) {
	friendsOfA, err := g.GetFriendIDs(ctx, a)
	if err != nil {
		return nil, err
	}
	friendsOfB, err := g.GetFriendIDs(ctx, b)
	if err != nil {
		return nil, err
	}
	return Intersect(friendsOfA, friendsOfB, a, b), nil
}

// Intersect returns the sorted, de-duplicated ids present in both x and y,
// minus any id listed in exclude.
func Intersect(x, y []uint, exclude ...uint) []uint {
	inY := make(map[uint]struct{}, len(y))
	for _, id := range y {
		inY[id] = struct{}{}
	}
	var both []uint
	for _, id := range x {
		if _, ok := inY[id]; ok {
			both = append(both, id)
		}
	}
	return normalize(both, exclude...)
}

func normalize(ids []uint, exclude ...uint) []uint {
	skip := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
