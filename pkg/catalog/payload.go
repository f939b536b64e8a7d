package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Button payload encodings are part of the transport contract and must stay
// stable across releases.
const (
	payloadLangPrefix  = "lang_"
	payloadVoicePrefix = "voice_"
	payloadPagePrefix  = "page_"
	PayloadCancel      = "cancel"
	PayloadBack        = "back_to_languages"
	PayloadNoop        = "noop"
)

type PayloadKind int

const (
	PayloadKindLang PayloadKind = iota
	PayloadKindVoice
	PayloadKindPage
	PayloadKindCancel
	PayloadKindBack
	PayloadKindNoop
)

// Payload is a button tap decoded once at the boundary; flow logic never
// re-splits raw callback strings.
type Payload struct {
	Kind     PayloadKind
	Language string
	VoiceID  string
	Page     int
}

func LangPayload(label string) string { return payloadLangPrefix + label }

func VoicePayload(voiceID string) string { return payloadVoicePrefix + voiceID }

func PagePayload(page int) string { return payloadPagePrefix + strconv.Itoa(page) }

func ParsePayload(data string) (Payload, error) {
	switch {
	case data == PayloadCancel:
		return Payload{Kind: PayloadKindCancel}, nil
	case data == PayloadBack:
		return Payload{Kind: PayloadKindBack}, nil
	case data == PayloadNoop:
		return Payload{Kind: PayloadKindNoop}, nil
	case strings.HasPrefix(data, payloadLangPrefix):
		label := strings.TrimPrefix(data, payloadLangPrefix)
		if label == "" {
			return Payload{}, fmt.Errorf("empty language payload")
		}
		return Payload{Kind: PayloadKindLang, Language: label}, nil
	case strings.HasPrefix(data, payloadVoicePrefix):
		id := strings.TrimPrefix(data, payloadVoicePrefix)
		if id == "" {
			return Payload{}, fmt.Errorf("empty voice payload")
		}
		return Payload{Kind: PayloadKindVoice, VoiceID: id}, nil
	case strings.HasPrefix(data, payloadPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, payloadPagePrefix))
		if err != nil || page < 0 {
			return Payload{}, fmt.Errorf("bad page payload %q", data)
		}
		return Payload{Kind: PayloadKindPage, Page: page}, nil
	}
	return Payload{}, fmt.Errorf("unknown payload %q", data)
}
