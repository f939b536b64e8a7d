package bus

import "github.com/mlutsenko/voiceforge/pkg/catalog"

// FileUpload carries the transport-side metadata of an uploaded file. The
// bytes themselves are fetched on demand, only after validation passes.
type FileUpload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Duration int    `json:"duration,omitempty"` // seconds, 0 when unknown
}

// InboundMessage is one user event. Exactly one of Command, Text, Callback
// or File is meaningful; the rest stay zero.
type InboundMessage struct {
	Channel  string            `json:"channel"`
	SenderID string            `json:"sender_id"`
	ChatID   string            `json:"chat_id"`
	Command  string            `json:"command,omitempty"` // slash command, leading '/' stripped
	Text     string            `json:"text,omitempty"`
	Callback string            `json:"callback,omitempty"` // raw button payload
	File     *FileUpload       `json:"file,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AudioAttachment points at a local temp file. The transport deletes the
// file once the send finishes, successfully or not.
type AudioAttachment struct {
	Path    string `json:"path"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type OutboundMessage struct {
	Channel       string           `json:"channel"`
	ChatID        string           `json:"chat_id"`
	Content       string           `json:"content,omitempty"`
	Menu          *catalog.Menu    `json:"menu,omitempty"`
	MainKeyboard  bool             `json:"main_keyboard,omitempty"`
	EditMessageID int              `json:"edit_message_id,omitempty"` // >0: edit instead of send
	Audio         *AudioAttachment `json:"audio,omitempty"`
}
