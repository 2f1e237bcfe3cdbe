package wizard

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type State int

const (
	StateDate State = iota + 1
	StateTimeOnly
	StateDateOnly
	StateActivity
	StateNotes
	StateConfirm
	StateEditChoice
)

func (s State) String() string {
	switch s {
	case StateDate:
		return "date"
	case StateTimeOnly:
		return "time_only"
	case StateDateOnly:
		return "date_only"
	case StateActivity:
		return "activity"
	case StateNotes:
		return "notes"
	case StateConfirm:
		return "confirm"
	case StateEditChoice:
		return "edit_choice"
	}
	return "unknown"
}

// Session is the draft reminder of one chat.
type Session struct {
	State    State
	Location *time.Location

	PartialDate time.Time
	PartialHour int
	PartialMin  int

	EventTime time.Time
	Activity  string
	Notes     *string
}

// Sessions keeps drafts in memory; abandoned ones expire after ttl.
type Sessions struct {
	lru *expirable.LRU[int64, Session]
}

func NewSessions(size int, ttl time.Duration) *Sessions {
	return &Sessions{lru: expirable.NewLRU[int64, Session](size, nil, ttl)}
}

func (s *Sessions) Get(chatID int64) (Session, bool) { return s.lru.Get(chatID) }

func (s *Sessions) Put(chatID int64, sess Session) { s.lru.Add(chatID, sess) }

func (s *Sessions) Drop(chatID int64) { s.lru.Remove(chatID) }

func (s *Sessions) Len() int { return s.lru.Len() }
