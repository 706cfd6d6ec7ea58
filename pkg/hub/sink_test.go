package hub

import "sync"

// sentCall 记录一次出站广播
type sentCall struct {
	Scope   string // all / group / groupExcept / others
	Group   string
	Exclude string
	Event   string
	Args    []any
}

// recordingSink 测试用 Broadcaster，记录全部调用
type recordingSink struct {
	mu    sync.Mutex
	calls []sentCall
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (s *recordingSink) SendToAll(event string, args ...any) {
	s.record(sentCall{Scope: "all", Event: event, Args: args})
}

func (s *recordingSink) SendToGroup(group, event string, args ...any) {
	s.record(sentCall{Scope: "group", Group: group, Event: event, Args: args})
}

func (s *recordingSink) SendToGroupExcept(group, exclude, event string, args ...any) {
	s.record(sentCall{Scope: "groupExcept", Group: group, Exclude: exclude, Event: event, Args: args})
}

func (s *recordingSink) SendToOthers(exclude, event string, args ...any) {
	s.record(sentCall{Scope: "others", Exclude: exclude, Event: event, Args: args})
}

func (s *recordingSink) record(c sentCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

// Calls 返回已记录调用的副本
func (s *recordingSink) Calls() []sentCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsFor 返回指定事件的调用
func (s *recordingSink) CallsFor(event string) []sentCall {
	var out []sentCall
	for _, c := range s.Calls() {
		if c.Event == event {
			out = append(out, c)
		}
	}
	return out
}

// Reset 清空记录
func (s *recordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
