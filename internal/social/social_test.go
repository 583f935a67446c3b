package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapGraph map[uint][]uint

func (g mapGraph) GetFriendIDs(_ context.Context, userID uint) ([]uint, error) {
	return g[userID], nil
}

type failingGraph struct{ err error }

func (g failingGraph) GetFriendIDs(context.Context, uint) ([]uint, error) {
	return nil, g.err
}

func TestFriendIDs_SortedWithoutSelf(t *testing.T) {
	g := mapGraph{1: {4, 2, 1, 3}}
	ids, err := FriendIDs(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 4}, ids)

	ids, err = FriendIDs(context.Background(), g, 9)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCommonFriendIDs(t *testing.T) {
	g := mapGraph{
		1: {2, 3, 4, 5},
		2: {1, 3, 5, 6},
	}
	ids, err := CommonFriendIDs(context.Background(), g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 5}, ids)
}

func TestCommonFriendIDs_ExcludesBothUsers(t *testing.T) {
	// 即使存在自环，结果中也不能出现 a 或 b
	g := mapGraph{
		1: {1, 2, 3},
		2: {1, 2, 3},
	}
	ids, err := CommonFriendIDs(context.Background(), g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids)
}

func TestCommonFriendIDs_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := CommonFriendIDs(context.Background(), failingGraph{err: boom}, 1, 2)
	assert.ErrorIs(t, err, boom)
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []uint{2, 7}, Intersect([]uint{7, 2, 2, 9}, []uint{2, 7, 8}))
	assert.Empty(t, Intersect(nil, []uint{1}))
	assert.Empty(t, Intersect([]uint{1, 2}, []uint{1, 2}, 1, 2))
}
