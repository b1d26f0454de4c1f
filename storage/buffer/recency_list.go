// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"github.com/All23tor/DiscoBD/types"
)

type node struct {
	key  types.PageID
	next *node
	prev *node
}

// recencyList is the eviction order: least recently used at the
// front, most recently used at the back. Hits and inserts push to
// the back, the eviction scan walks from the front.
type recencyList struct {
	head       *node
	tail       *node
	size       uint32
	supportMap map[types.PageID]*node
}

func newRecencyList() *recencyList {
	return &recencyList{nil, nil, 0, make(map[types.PageID]*node)}
}

func (l *recencyList) hasKey(key types.PageID) bool {
	_, ok := l.supportMap[key]
	return ok
}

func (l *recencyList) pushBack(key types.PageID) {
	if _, ok := l.supportMap[key]; ok {
		l.moveToBack(key)
		return
	}

	newNode := &node{key, nil, nil}
	if l.size == 0 {
		l.head = newNode
		l.tail = newNode
	} else {
		newNode.prev = l.tail
		l.tail.next = newNode
		l.tail = newNode
	}
	l.size++
	l.supportMap[key] = newNode
}

func (l *recencyList) moveToBack(key types.PageID) {
	node, ok := l.supportMap[key]
	if !ok || node == l.tail {
		return
	}

	if node == l.head {
		l.head = node.next
		l.head.prev = nil
	} else {
		node.prev.next = node.next
		node.next.prev = node.prev
	}
	node.prev = l.tail
	node.next = nil
	l.tail.next = node
	l.tail = node
}

func (l *recencyList) remove(key types.PageID) {
	node, ok := l.supportMap[key]
	if !ok {
		return
	}

	if node == l.head {
		l.head = node.next
	} else {
		node.prev.next = node.next
	}
	if node == l.tail {
		l.tail = node.prev
	} else {
		node.next.prev = node.prev
	}

	l.size--
	delete(l.supportMap, key)
}