package hub

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirectoryMergeSemantics 测试角色合并：状态连接不覆盖已注册的聊天身份
func TestDirectoryMergeSemantics(t *testing.T) {
	d := NewConnectionDirectory()

	d.RegisterChatIdentity("conn-1", "alice")
	d.UpsertOnConnect("conn-1", "Mozilla/5.0", "10.0.0.1")

	rec, ok := d.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice", rec.Username)
	assert.True(t, rec.IsChatConnection)
	assert.True(t, rec.IsStatusMonitor)
	assert.Equal(t, "Mozilla/5.0", rec.UserAgent)
	assert.Equal(t, "10.0.0.1", rec.RemoteIPAddress)

	// 同一 id 只保留一条记录
	assert.Equal(t, 1, d.Len())
	assert.Len(t, d.Snapshot(), 1)
}

// TestDirectoryRegisterIntoStatusRecord 测试向已存在的状态记录注册聊天身份
func TestDirectoryRegisterIntoStatusRecord(t *testing.T) {
	d := NewConnectionDirectory()

	d.UpsertOnConnect("conn-1", "curl/8.0", "127.0.0.1")
	d.RegisterChatIdentity("conn-1", "bob")

	rec, ok := d.Get("conn-1")
	require.True(t, ok)
	assert.Equal(t, "bob", rec.Username)
	assert.True(t, rec.IsChatConnection)
	assert.True(t, rec.IsStatusMonitor)
}

// TestDirectoryConnectedAtImmutable 测试 ConnectedAt 不随角色合并变化
func TestDirectoryConnectedAtImmutable(t *testing.T) {
	d := NewConnectionDirectory()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	d.now = func() time.Time { return current }

	d.RegisterChatIdentity("conn-1", "alice")
	current = base.Add(time.Minute)
	d.UpsertOnConnect("conn-1", "ua", "addr")

	rec, _ := d.Get("conn-1")
	assert.Equal(t, base, rec.ConnectedAt)
	assert.Equal(t, time.Minute, rec.ConnectionDuration)
}

// TestDirectoryRemove 测试删除的幂等性
func TestDirectoryRemove(t *testing.T) {
	d := NewConnectionDirectory()

	// 删除从未存在的 id 是空操作
	d.Remove("ghost")
	assert.Empty(t, d.Snapshot())

	d.UpsertOnConnect("conn-1", "ua", "addr")
	d.Remove("conn-1")
	d.Remove("conn-1")
	assert.Equal(t, 0, d.Len())

	_, ok := d.Get("conn-1")
	assert.False(t, ok)
}

// TestDirectorySnapshotOrder 测试快照按插入顺序返回且无重复
func TestDirectorySnapshotOrder(t *testing.T) {
	d := NewConnectionDirectory()

	for i := 0; i < 5; i++ {
		d.UpsertOnConnect(fmt.Sprintf("conn-%d", i), "ua", "addr")
	}
	d.Remove("conn-2")
	d.UpsertOnConnect("conn-5", "ua", "addr")

	snap := d.Snapshot()
	require.Len(t, snap, 5)

	want := []string{"conn-0", "conn-1", "conn-3", "conn-4", "conn-5"}
	seen := make(map[string]bool)
	for i, rec := range snap {
		assert.Equal(t, want[i], rec.ConnectionID)
		assert.False(t, seen[rec.ConnectionID], "duplicate id in snapshot")
		seen[rec.ConnectionID] = true
	}
}

// TestDirectorySnapshotIsCopy 测试快照是副本而非活动视图
func TestDirectorySnapshotIsCopy(t *testing.T) {
	d := NewConnectionDirectory()
	d.UpsertOnConnect("conn-1", "ua", "addr")

	snap := d.Snapshot()
	snap[0].Username = "mallory"

	rec, _ := d.Get("conn-1")
	assert.Empty(t, rec.Username)
}

// TestDirectoryConcurrentMutations 测试并发变更下的一致性
func TestDirectoryConcurrentMutations(t *testing.T) {
	d := NewConnectionDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", n)
			d.UpsertOnConnect(id, "ua", "addr")
			d.RegisterChatIdentity(id, fmt.Sprintf("user-%d", n))
			// 快照在任意时刻都不包含重复 id
			seen := make(map[string]bool)
			for _, rec := range d.Snapshot() {
				if seen[rec.ConnectionID] {
					t.Errorf("duplicate id %s", rec.ConnectionID)
				}
				seen[rec.ConnectionID] = true
			}
			if n%2 == 0 {
				d.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, d.Len())
}
