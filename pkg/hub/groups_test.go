package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGroupJoinLeave 测试加入/离开的幂等性
func TestGroupJoinLeave(t *testing.T) {
	g := NewGroupMembership()

	g.Join("g1", "a")
	g.Join("g1", "a")
	g.Join("g1", "b")

	assert.Equal(t, []string{"a", "b"}, g.MembersOf("g1"))
	assert.True(t, g.IsMember("g1", "a"))
	assert.False(t, g.IsMember("g1", "c"))

	g.Leave("g1", "a")
	g.Leave("g1", "a")
	assert.Equal(t, []string{"b"}, g.MembersOf("g1"))

	// 不存在的组是空操作
	g.Leave("ghost", "a")
}

// TestGroupEmptiedOnLastLeave 测试最后一个成员离开后组条目删除
func TestGroupEmptiedOnLastLeave(t *testing.T) {
	g := NewGroupMembership()

	g.Join("g1", "a")
	assert.Equal(t, 1, g.GroupCount())

	g.Leave("g1", "a")
	assert.Equal(t, 0, g.GroupCount())
	assert.Empty(t, g.MembersOf("g1"))
}

// TestGroupRemoveAll 测试断开清理：从所有组移除
func TestGroupRemoveAll(t *testing.T) {
	g := NewGroupMembership()

	g.Join("g1", "a")
	g.Join("g1", "b")
	g.Join("g2", "a")

	g.RemoveAll("a")

	assert.Equal(t, []string{"b"}, g.MembersOf("g1"))
	assert.False(t, g.IsMember("g2", "a"))
	assert.Equal(t, 1, g.GroupCount())
}

// TestGroupMembersOfIsCopy 测试成员列表是副本
func TestGroupMembersOfIsCopy(t *testing.T) {
	g := NewGroupMembership()
	g.Join("g1", "a")

	members := g.MembersOf("g1")
	members[0] = "mutated"

	assert.Equal(t, []string{"a"}, g.MembersOf("g1"))
}
