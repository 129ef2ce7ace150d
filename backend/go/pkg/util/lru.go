package util

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// CacheConfig 用于配置LRU缓存的行为。
type CacheConfig struct {
	// Capacity 是缓存的最大元素数量，必须大于 0。
	Capacity int
	// TTL 是元素的存活时间。如果为0，则元素永不过期。
	TTL time.Duration
	// Now 返回当前时间，为 nil 时使用 time.Now（测试中可替换）。
	Now func() time.Time
}

// entry 结构体用于存储链表节点中的实际数据。
type entry[K comparable, V any] struct {
	key        K
	value      V
	expiration time.Time
}

// LRUCache 是一个支持泛型、带TTL且线程安全的LRU缓存。
type LRUCache[K comparable, V any] struct {
	config CacheConfig
	ll     *list.List
	cache  map[K]*list.Element
	lock   sync.Mutex
}

// NewWithConfig 使用指定的配置创建一个LRU缓存实例。
func NewWithConfig[K comparable, V any](config CacheConfig) (*LRUCache[K, V], error) {
	if config.Capacity <= 0 {
		return nil, fmt.Errorf("Capacity 必须大于 0")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &LRUCache[K, V]{
		config: config,
		ll:     list.New(),
		cache:  make(map[K]*list.Element),
	}, nil
}

// Get 方法根据键获取一个值，过期的元素会被移除。
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var zero V
	element, ok := c.cache[key]
	if !ok {
		return zero, false
	}

	e := element.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(element)
		return zero, false
	}

	c.ll.MoveToFront(element)
	return e.value, true
}

// Put 方法向缓存中添加或更新一个键值对，超出容量时淘汰最久未使用的元素。
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var expiration time.Time
	if c.config.TTL > 0 {
		expiration = c.config.Now().Add(c.config.TTL)
	}

	if element, ok := c.cache[key]; ok {
		e := element.Value.(*entry[K, V])
		e.value = value
		e.expiration = expiration
		c.ll.MoveToFront(element)
		return
	}

	element := c.ll.PushFront(&entry[K, V]{key: key, value: value, expiration: expiration})
	c.cache[key] = element

	for c.ll.Len() > c.config.Capacity {
		c.removeElement(c.ll.Back())
	}
}

// Delete 删除指定的键。
func (c *LRUCache[K, V]) Delete(key K) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if element, ok := c.cache[key]; ok {
		c.removeElement(element)
	}
}

// Purge 清空缓存。
func (c *LRUCache[K, V]) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ll.Init()
	c.cache = make(map[K]*list.Element)
}

// Len 返回当前缓存中的条目数量（包括尚未被访问到的过期条目）。
func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ll.Len()
}

// 此方法假设已持有锁。
func (c *LRUCache[K, V]) expired(e *entry[K, V]) bool {
	return c.config.TTL > 0 && c.config.Now().After(e.expiration)
}

// 此方法假设已持有锁。
func (c *LRUCache[K, V]) removeElement(e *list.Element) {
	c.ll.Remove(e)
	delete(c.cache, e.Value.(*entry[K, V]).key)
}
