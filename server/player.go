package server

import "github.com/JoaoCarvalho515/coup/storage"

// Lobby 房间持久化的名单：按加入顺序的成员与当前房主。
// 值类型，便于先构造候选副本、保存成功后再采用
type Lobby struct {
	Members []storage.Member
	HostID  string
}

func (l Lobby) clone() Lobby {
	l.Members = append([]storage.Member(nil), l.Members...)
	return l
}

func (l Lobby) has(playerID string) bool {
	return l.index(playerID) >= 0
}

func (l Lobby) index(playerID string) int {
	for i, m := range l.Members {
		if m.ID == playerID {
			return i
		}
	}
	return -1
}

// upsert 添加成员或为已有成员改名；空房间的第一个成员成为房主
func (l *Lobby) upsert(m storage.Member) {
	if i := l.index(m.ID); i >= 0 {
		l.Members[i].Name = m.Name
		return
	}
	l.Members = append(l.Members, m)
	if l.HostID == "" {
		l.HostID = m.ID
	}
}

// remove 移除成员；房主离开时由最早加入的剩余成员接任
func (l *Lobby) remove(playerID string) bool {
	i := l.index(playerID)
	if i < 0 {
		return false
	}
	l.Members = append(l.Members[:i:i], l.Members[i+1:]...)
	if l.HostID == playerID {
		l.HostID = ""
		if len(l.Members) > 0 {
			l.HostID = l.Members[0].ID
		}
	}
	return true
}

// session 一个在线连接及其代表的玩家
type session struct {
	conn     Conn
	playerID string
}

// sessions 按连接 id 记录在线连接，仅房间循环访问
type sessions map[string]*session

func (s sessions) add(c Conn, playerID string) {
	s[c.ID()] = &session{conn: c, playerID: playerID}
}

// live 统计 playerID 当前持有的连接数
func (s sessions) live(playerID string) int {
	n := 0
	for _, sess := range s {
		if sess.playerID == playerID {
			n++
		}
	}
	return n
}

// of 返回 playerID 持有的全部连接
func (s sessions) of(playerID string) []*session {
	var out []*session
	for _, sess := range s {
		if sess.playerID == playerID {
			out = append(out, sess)
		}
	}
	return out
}
