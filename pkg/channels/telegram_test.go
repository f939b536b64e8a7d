package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlutsenko/voiceforge/pkg/catalog"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/generate", "generate"},
		{"/sync_voices@voiceforge_bot", "sync_voices"},
		{"/add_voice some args", "add_voice"},
		{"/generate@bot extra", "generate"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCommand(tt.text), "parseCommand(%q)", tt.text)
	}
}

func TestParseChatID(t *testing.T) {
	id, err := parseChatID("123456789")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	id, err = parseChatID("-1001234")
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234), id)

	_, err = parseChatID("not-a-number")
	assert.Error(t, err)
}

func TestInlineKeyboard(t *testing.T) {
	menu := catalog.Menu{Rows: [][]catalog.Button{
		{{Label: "Русский", Payload: "lang_Русский"}},
		{{Label: "⬅️", Payload: "page_0"}, {Label: "2/3", Payload: "noop"}},
	}}

	kb := inlineKeyboard(&menu)
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "Русский", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "lang_Русский", kb.InlineKeyboard[0][0].CallbackData)
	require.Len(t, kb.InlineKeyboard[1], 2)
	assert.Equal(t, "noop", kb.InlineKeyboard[1][1].CallbackData)

	assert.Nil(t, inlineKeyboard(nil))
}

func TestMainKeyboard(t *testing.T) {
	kb := mainKeyboard()
	require.Len(t, kb.Keyboard, 3)
	assert.Equal(t, "/add_voice", kb.Keyboard[0][0].Text)
	assert.Equal(t, "/sync_voices", kb.Keyboard[1][0].Text)
	assert.Equal(t, "/generate", kb.Keyboard[2][0].Text)
	assert.True(t, kb.ResizeKeyboard)
}
