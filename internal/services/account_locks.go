package services

import (
	"sort"
	"sync"
)

// AccountLocks serializes mutations per account. Mongo standalone
// deployments have no multi-document transactions, so every
// read-check-mutate-log sequence runs under the owning account's lock.
// The map only ever grows; one mutex per active user is cheap enough.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *AccountLocks) lockFor(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

// Lock acquires the lock for a single account.
func (l *AccountLocks) Lock(userID string) func() {
	m := l.lockFor(userID)
	m.Lock()
	return m.Unlock
}

// LockPair acquires both accounts' locks in lexicographic order so two
// concurrent transfers between the same pair cannot deadlock.
func (l *AccountLocks) LockPair(userA, userB string) func() {
	if userA == userB {
		return l.Lock(userA)
	}
	ids := []string{userA, userB}
	sort.Strings(ids)
	first := l.lockFor(ids[0])
	second := l.lockFor(ids[1])
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
