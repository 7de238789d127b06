package models

import (
	"encoding/json"
	"fmt"
	"sync"

	"querydesk/internal/constants"
)

// Visibility is the set of independent show/hide toggles for one message.
// Absence of an entry in the session map means every flag is false.
type Visibility struct {
	GeneratedQuery   bool `json:"generated_query"`
	ResultTable      bool `json:"result_table"`
	Chart            bool `json:"chart"`
	SimilarQuestions bool `json:"similar_questions"`
	FollowUps        bool `json:"follow_ups"`
}

// Session is the single source of truth for one conversation: the append-only
// transcript, the per-message visibility map keyed by message id, and the
// active view. It lives in memory only; expiry of the session registry entry
// discards everything.
type Session struct {
	UserID string
	Base

	mu         sync.RWMutex
	view       constants.ViewMode
	messages   []*Message
	visibility map[string]*Visibility
	asking     bool
}

func NewSession(userID string) *Session {
	return &Session{
		UserID:     userID,
		Base:       NewBase(),
		view:       constants.ViewConversation,
		visibility: make(map[string]*Visibility),
	}
}

// AppendMessage adds msg to the end of the transcript. Prior entries are
// never mutated or removed; the only validation is id uniqueness. Assistant
// messages get the auto-expand heuristic applied exactly once, here.
func (s *Session) AppendMessage(msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.messages {
		if existing.ID == msg.ID {
			return fmt.Errorf("duplicate message id: %s", msg.ID)
		}
	}
	s.messages = append(s.messages, msg)

	if msg.Type == constants.MessageTypeAssistant {
		s.autoExpand(msg)
	}
	return nil
}

// autoExpand seeds the default visibility for a fresh assistant message:
// chart, table and follow-ups open when present; the generated query and
// similar questions stay hidden until the user asks for them.
func (s *Session) autoExpand(msg *Message) {
	flags := &Visibility{}
	if len(msg.Chart) > 0 {
		flags.Chart = true
	}
	if len(msg.Rows) > 0 {
		flags.ResultTable = true
	}
	if len(msg.FollowUps) > 0 {
		flags.FollowUps = true
	}
	s.visibility[msg.ID] = flags
}

// Messages returns the transcript in append order. Entries are copies taken
// under the lock: Feedback and Chart mutate after append, so handing out the
// stored pointers would let renders race those writes.
func (s *Session) Messages() []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Message, 0, len(s.messages))
	for _, msg := range s.messages {
		copied := *msg
		out = append(out, &copied)
	}
	return out
}

// MessageByID returns a copy of the message with the given id, or nil.
func (s *Session) MessageByID(id string) *Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg := s.findLocked(id)
	if msg == nil {
		return nil
	}
	copied := *msg
	return &copied
}

func (s *Session) findLocked(id string) *Message {
	for _, msg := range s.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// SetFeedback records a verdict on the message with the given id. Unknown
// ids and ineligible messages are silent no-ops; the UI disables feedback
// for those, so the store does not surface an error.
func (s *Session) SetFeedback(messageID string, value constants.FeedbackType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findLocked(messageID)
	if msg == nil || !msg.AcceptsFeedback() {
		return
	}
	msg.Feedback = value
}

// SetChart replaces the chart spec on an existing message. Used by chart
// regeneration; a failed regeneration never reaches this point, so the prior
// chart survives failures.
func (s *Session) SetChart(messageID string, chart json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findLocked(messageID)
	if msg == nil {
		return
	}
	msg.Chart = chart
}

// SetVisibility sets one flag for one message, creating the entry lazily.
func (s *Session) SetVisibility(messageID string, flag constants.VisibilityFlag, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, ok := s.visibility[messageID]
	if !ok {
		flags = &Visibility{}
		s.visibility[messageID] = flags
	}

	switch flag {
	case constants.FlagGeneratedQuery:
		flags.GeneratedQuery = value
	case constants.FlagResultTable:
		flags.ResultTable = value
	case constants.FlagChart:
		flags.Chart = value
	case constants.FlagSimilarQuestions:
		flags.SimilarQuestions = value
	case constants.FlagFollowUps:
		flags.FollowUps = value
	}
}

// Visibility returns the flags for a message; the zero value when no entry
// exists (hidden is the default).
func (s *Session) Visibility(messageID string) Visibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if flags, ok := s.visibility[messageID]; ok {
		return *flags
	}
	return Visibility{}
}

// BeginAsk marks an ask in flight. It returns false when one already is,
// which serializes ask calls per session the way the disabled input box does.
func (s *Session) BeginAsk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asking {
		return false
	}
	s.asking = true
	return true
}

// EndAsk clears the in-flight marker, on success or failure alike.
func (s *Session) EndAsk() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asking = false
}

// SetView switches the active view.
func (s *Session) SetView(view constants.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

// View returns the active view.
func (s *Session) View() constants.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Len returns the transcript length.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
