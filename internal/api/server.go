package api

import (
	"sync"
	"time"

	"github.com/learnify/learnify/internal/cloud"
	"github.com/learnify/learnify/internal/db"
	"github.com/learnify/learnify/internal/generator"
	"github.com/learnify/learnify/internal/services"
	"github.com/learnify/learnify/internal/session"
	"github.com/learnify/learnify/internal/worker"
)

type Server struct {
	DB         *db.DB
	History    services.HistoryService
	Sync       services.SyncService
	Generator  generator.Generator
	Cloud      cloud.Store
	SubmitPool *worker.Pool

	RecentLimit       int
	TimePerQuestion   time.Duration
	DefaultQuestions  int
	DefaultDifficulty string
	DefaultLanguage   string

	mu       sync.Mutex
	sessions map[string]*session.Session
	passes   map[string]*services.SyncPass
}

func (s *Server) session(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) addSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]*session.Session)
	}
	s.sessions[sess.ID()] = sess
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Server) pass(ownerID string) (*services.SyncPass, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.passes[ownerID]
	return p, ok
}

func (s *Server) setPass(ownerID string, p *services.SyncPass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.passes == nil {
		s.passes = make(map[string]*services.SyncPass)
	}
	s.passes[ownerID] = p
}
