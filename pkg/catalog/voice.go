package catalog

// Voice is one synthesis profile hosted by the provider. VoiceID is the only
// stable key; every other attribute is overwritten on resync.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Language string `json:"language"` // display label, see languages.go
	Gender   string `json:"gender"`
	IsCloned bool   `json:"is_cloned"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderCustom = "custom"
)
