package hub

import (
	"sort"
	"sync"
)

// GroupMembership 组成员索引，组名 -> 连接 ID 集合。
//
// 成员关系独立于连接目录：加入组不要求连接已注册聊天身份。
// Join/Leave 幂等；最后一个成员离开后组条目整体删除，避免空组堆积。
type GroupMembership struct {
	mu     sync.RWMutex
	groups map[string]map[string]struct{}
}

// NewGroupMembership 创建组成员索引
func NewGroupMembership() *GroupMembership {
	return &GroupMembership{
		groups: make(map[string]map[string]struct{}),
	}
}

// Join 将连接加入组，重复加入为空操作
func (g *GroupMembership) Join(group, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.groups[group]
	if !ok {
		members = make(map[string]struct{})
		g.groups[group] = members
	}
	members[id] = struct{}{}
}

// Leave 将连接移出组，不在组内或组不存在均为空操作
func (g *GroupMembership) Leave(group, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.groups[group]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(g.groups, group)
	}
}

// RemoveAll 将连接从所有组移除（连接断开时的清理）
func (g *GroupMembership) RemoveAll(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for group, members := range g.groups {
		if _, ok := members[id]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(g.groups, group)
			}
		}
	}
}

// MembersOf 返回组成员 ID 的副本，按字典序排列；组不存在返回空切片
func (g *GroupMembership) MembersOf(group string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	members := g.groups[group]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsMember 查询连接是否在组内
func (g *GroupMembership) IsMember(group, id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	members, ok := g.groups[group]
	if !ok {
		return false
	}
	_, ok = members[id]
	return ok
}

// GroupCount 当前组数量
func (g *GroupMembership) GroupCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.groups)
}
