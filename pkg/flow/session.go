package flow

import "sync"

// Step is the position of a user inside one of the two flows.
type Step int

const (
	StepIdle Step = iota
	StepChoosingLanguage
	StepChoosingVoice
	StepAwaitingText
	StepAwaitingAudioFile
	StepAwaitingVoiceName
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepChoosingLanguage:
		return "choosing_language"
	case StepChoosingVoice:
		return "choosing_voice"
	case StepAwaitingText:
		return "awaiting_text"
	case StepAwaitingAudioFile:
		return "awaiting_audio_file"
	case StepAwaitingVoiceName:
		return "awaiting_voice_name"
	}
	return "unknown"
}

// Session is the per-user conversation record: the current step plus the
// data that step carried over from earlier ones. PendingAudio lives only
// between upload acceptance and the clone call.
type Session struct {
	Step         Step
	VoiceID      string
	PendingAudio []byte
}

// SessionManager owns every user's Session. Event ordering per user is the
// engine's job; the manager only guards the map itself.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns a copy of the user's session, creating an idle one on
// first contact.
func (sm *SessionManager) GetOrCreate(userKey string) Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[userKey]
	if !ok {
		session = &Session{}
		sm.sessions[userKey] = session
	}
	return *session
}

// Update applies fn to the user's session under the lock.
func (sm *SessionManager) Update(userKey string, fn func(*Session)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[userKey]
	if !ok {
		session = &Session{}
		sm.sessions[userKey] = session
	}
	fn(session)
}

// Clear resets the user back to idle and drops all step-scoped data,
// including any held audio bytes.
func (sm *SessionManager) Clear(userKey string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userKey)
}
