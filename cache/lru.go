package cache

// lruNode is one element of the intrusive LRU list.
type lruNode[K any] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList is a doubly-linked list ordered from most to least recently
// used. It uses a sentinel root node so insertion and removal need no nil
// checks. Not safe for concurrent use; the owning shard locks around it.
type lruList[K any] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K any]() *lruList[K] {
	l := &lruList[K]{}
	l.root.prev = &l.root
	l.root.next = &l.root
	return l
}

// Len returns the number of nodes in the list.
func (l *lruList[K]) Len() int { return l.len }

// PushFront inserts a new node with the given key at the front.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfter(n, &l.root)
	l.len++
	return n
}

// MoveToFront moves an existing node to the front. A nil node is a no-op.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfter(n, &l.root)
}

// Remove unlinks a node from the list.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	l.unlink(n)
	l.len--
}

// RemoveOldest unlinks and returns the key of the least recently used
// node. Returns (zero, false) when the list is empty.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.len == 0 {
		var zero K
		return zero, false
	}
	oldest := l.root.prev
	l.Remove(oldest)
	return oldest.key, true
}

// Clear resets the list to empty.
func (l *lruList[K]) Clear() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.len = 0
}

func (l *lruList[K]) insertAfter(n, at *lruNode[K]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}
