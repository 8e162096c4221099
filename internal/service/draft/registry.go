/**
 * 草稿编辑:会话注册表
 * @description: 服务端持有的活动编辑会话表。会话只存在于内存，
 *               关闭或保存成功后移除；进程重启即全部丢弃
 * @func: Registry、NewSessionID
 */
package draft

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var sessionSeq uint64

// NewSessionID 生成编辑会话ID
func NewSessionID() string {
	return fmt.Sprintf("edit_%d_%d", time.Now().UnixMilli(), atomic.AddUint64(&sessionSeq, 1))
}

// Registry 活动编辑会话注册表
type Registry[E any] struct {
	mu       sync.RWMutex
	sessions map[string]E
}

// NewRegistry 创建空注册表
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{sessions: make(map[string]E)}
}

// Put 登记会话
func (r *Registry[E]) Put(id string, session E) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = session
}

// Get 按ID取会话
func (r *Registry[E]) Get(id string) (E, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Delete 移除会话(保存成功或用户关闭对话框)
func (r *Registry[E]) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len 当前活动会话数
func (r *Registry[E]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
