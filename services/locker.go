package services

import "sync"

// eventLocker сериализует изменения сетки одного события внутри процесса.
// Между процессами порядок обеспечивает SELECT ... FOR UPDATE по событию.
type eventLocker struct {
	mu    sync.Mutex
	locks map[int]*eventLock
}

type eventLock struct {
	mu   sync.Mutex
	refs int
}

func newEventLocker() *eventLocker {
	return &eventLocker{locks: make(map[int]*eventLock)}
}

// Lock blocks until the event is free and returns the unlock function.
func (l *eventLocker) Lock(eventID int) func() {
	l.mu.Lock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &eventLock{}
		l.locks[eventID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, eventID)
		}
		l.mu.Unlock()
	}
}
