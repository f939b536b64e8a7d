package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionManagerGetOrCreateStartsIdle(t *testing.T) {
	sm := NewSessionManager()
	session := sm.GetOrCreate("telegram:1")
	assert.Equal(t, StepIdle, session.Step)
}

func TestSessionManagerUpdate(t *testing.T) {
	sm := NewSessionManager()

	sm.Update("telegram:1", func(s *Session) {
		s.Step = StepAwaitingText
		s.VoiceID = "v1"
	})

	session := sm.GetOrCreate("telegram:1")
	assert.Equal(t, StepAwaitingText, session.Step)
	assert.Equal(t, "v1", session.VoiceID)

	// Other users are untouched.
	other := sm.GetOrCreate("telegram:2")
	assert.Equal(t, StepIdle, other.Step)
}

func TestSessionManagerGetOrCreateReturnsCopy(t *testing.T) {
	sm := NewSessionManager()
	session := sm.GetOrCreate("telegram:1")
	session.Step = StepAwaitingText

	assert.Equal(t, StepIdle, sm.GetOrCreate("telegram:1").Step,
		"mutating the returned value must not touch the stored session")
}

func TestSessionManagerClearDropsHeldAudio(t *testing.T) {
	sm := NewSessionManager()
	sm.Update("telegram:1", func(s *Session) {
		s.Step = StepAwaitingVoiceName
		s.PendingAudio = []byte("audio")
	})

	sm.Clear("telegram:1")

	session := sm.GetOrCreate("telegram:1")
	assert.Equal(t, StepIdle, session.Step)
	assert.Nil(t, session.PendingAudio)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "idle", StepIdle.String())
	assert.Equal(t, "awaiting_voice_name", StepAwaitingVoiceName.String())
	assert.Equal(t, "unknown", Step(99).String())
}
