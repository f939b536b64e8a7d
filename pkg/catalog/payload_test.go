package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Payload
	}{
		{"cancel", PayloadCancel, Payload{Kind: PayloadKindCancel}},
		{"back", PayloadBack, Payload{Kind: PayloadKindBack}},
		{"noop", PayloadNoop, Payload{Kind: PayloadKindNoop}},
		{"language", LangPayload("Русский"), Payload{Kind: PayloadKindLang, Language: "Русский"}},
		{"language with underscore", LangPayload("Lang_X"), Payload{Kind: PayloadKindLang, Language: "Lang_X"}},
		{"voice", VoicePayload("abc123"), Payload{Kind: PayloadKindVoice, VoiceID: "abc123"}},
		{"page", PagePayload(3), Payload{Kind: PayloadKindPage, Page: 3}},
		{"page zero", PagePayload(0), Payload{Kind: PayloadKindPage, Page: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePayloadRejectsMalformedData(t *testing.T) {
	bad := []string{
		"",
		"garbage",
		"lang_",
		"voice_",
		"page_",
		"page_abc",
		"page_-1",
	}
	for _, data := range bad {
		t.Run(data, func(t *testing.T) {
			_, err := ParsePayload(data)
			assert.Error(t, err)
		})
	}
}
