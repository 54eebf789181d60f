package repository

import (
	"sync"

	"github.com/ivanoskov/deal_bot/internal/model"
)

const sessionShards = 32

type keyLock struct {
	mu   sync.Mutex
	refs int
}

type sessionShard struct {
	mu       sync.Mutex
	sessions map[int64]model.UserSession
	locks    map[int64]*keyLock
}

// MemorySessionStore хранит сессии в памяти процесса, разбитые на шарды.
// После перезапуска все сессии теряются.
type MemorySessionStore struct {
	shards [sessionShards]*sessionShard
}

func NewMemorySessionStore() *MemorySessionStore {
	s := &MemorySessionStore{}
	for i := range s.shards {
		s.shards[i] = &sessionShard{
			sessions: make(map[int64]model.UserSession),
			locks:    make(map[int64]*keyLock),
		}
	}
	return s
}

func (s *MemorySessionStore) shard(userID int64) *sessionShard {
	idx := userID % sessionShards
	if idx < 0 {
		idx = -idx
	}
	return s.shards[idx]
}

// Get возвращает StateUnset, если сессии нет
func (s *MemorySessionStore) Get(userID int64) model.State {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.sessions[userID].State
}

// Set меняет только состояние, имя пользователя остается прежним
func (s *MemorySessionStore) Set(userID int64, state model.State) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	session := sh.sessions[userID]
	session.UserID = userID
	session.State = state
	sh.put(session)
}

// Save записывает сессию целиком
func (s *MemorySessionStore) Save(session model.UserSession) {
	sh := s.shard(session.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.put(session)
}

// Session возвращает сохраненную сессию пользователя
func (s *MemorySessionStore) Session(userID int64) (model.UserSession, bool) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	session, ok := sh.sessions[userID]
	return session, ok
}

func (sh *sessionShard) put(session model.UserSession) {
	if session.State == model.StateUnset {
		delete(sh.sessions, session.UserID)
		return
	}
	sh.sessions[session.UserID] = session
}

// Lock сериализует операции над одним пользователем.
// Запись блокировки удаляется, когда ее отпускает последний владелец.
func (s *MemorySessionStore) Lock(userID int64) func() {
	sh := s.shard(userID)

	sh.mu.Lock()
	kl, ok := sh.locks[userID]
	if !ok {
		kl = &keyLock{}
		sh.locks[userID] = kl
	}
	kl.refs++
	sh.mu.Unlock()

	kl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			kl.mu.Unlock()
			sh.mu.Lock()
			kl.refs--
			if kl.refs == 0 {
				delete(sh.locks, userID)
			}
			sh.mu.Unlock()
		})
	}
}

// Len возвращает количество пользователей с сохраненным состоянием
func (s *MemorySessionStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.sessions)
		sh.mu.Unlock()
	}
	return total
}
