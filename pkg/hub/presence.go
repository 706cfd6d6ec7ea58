package hub

import (
	"sort"
	"time"
)

// PresenceSnapshot 某一时刻的在线统计。
// 构造后不再变更；每次查询/推送都重新计算，从不缓存。
type PresenceSnapshot struct {
	TotalConnections  int                `json:"totalConnections"`
	ChatConnections   int                `json:"chatConnections"`
	StatusConnections int                `json:"statusConnections"`
	ActiveUsers       []string           `json:"activeUsers"`
	Connections       []ConnectionRecord `json:"connections"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// ComputePresence 基于目录快照计算在线统计。纯函数，无副作用；
// 对同一份快照重复调用，除 LastUpdated 外结果相等。
//
// 计数口径：每条记录在 TotalConnections 中计一次；双角色记录在
// ChatConnections 和 StatusConnections 中各计一次。ActiveUsers 为
// 聊天角色连接的非空用户名去重后按字典序排列。
func ComputePresence(records []ConnectionRecord, now time.Time) PresenceSnapshot {
	snap := PresenceSnapshot{
		TotalConnections: len(records),
		ActiveUsers:      []string{},
		Connections:      records,
		LastUpdated:      now,
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.IsChatConnection {
			snap.ChatConnections++
			if rec.Username != "" {
				if _, dup := seen[rec.Username]; !dup {
					seen[rec.Username] = struct{}{}
					snap.ActiveUsers = append(snap.ActiveUsers, rec.Username)
				}
			}
		}
		if rec.IsStatusMonitor {
			snap.StatusConnections++
		}
	}
	sort.Strings(snap.ActiveUsers)

	return snap
}
