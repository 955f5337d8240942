package server

import (
	"math/rand"
	"sync"
	"time"
)

const (
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength       = 4
	recentCodesLimit = 100
	maxCodeAttempts  = 50
)

// CodeGenerator 生成短房间码，避开最近发出的房间码与在线房间
type CodeGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	inUse  func(code string) bool
	recent []string
	seen   map[string]bool
}

// NewCodeGenerator 创建生成器。inUse 可为 nil；rng 与 now 默认为按时间播种的随机源与 time.Now
func NewCodeGenerator(rng *rand.Rand, now func() time.Time, inUse func(string) bool) *CodeGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	if inUse == nil {
		inUse = func(string) bool { return false }
	}
	return &CodeGenerator{rng: rng, now: now, inUse: inUse, seen: make(map[string]bool)}
}

// Next 返回新的房间码；连续 maxCodeAttempts 次冲突后退回由时钟拼出的房间码
func (g *CodeGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := g.random()
		if g.seen[code] || g.inUse(code) {
			continue
		}
		g.remember(code)
		return code
	}

	return clockCode(g.now().UnixMilli())
}

// clockCode 用 codeAlphabet 拼出 ms 的低位 26 进制数字，结果与普通房间码格式一致
func clockCode(ms int64) string {
	if ms < 0 {
		ms = -ms
	}
	b := make([]byte, codeLength)
	for i := codeLength - 1; i >= 0; i-- {
		b[i] = codeAlphabet[ms%int64(len(codeAlphabet))]
		ms /= int64(len(codeAlphabet))
	}
	return string(b)
}

func (g *CodeGenerator) random() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// remember 记录房间码，窗口满时淘汰最早的一个
func (g *CodeGenerator) remember(code string) {
	g.recent = append(g.recent, code)
	g.seen[code] = true
	if len(g.recent) > recentCodesLimit {
		delete(g.seen, g.recent[0])
		g.recent = g.recent[1:]
	}
}
