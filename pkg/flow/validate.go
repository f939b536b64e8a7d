package flow

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/go-mp3"

	"github.com/mlutsenko/voiceforge/pkg/bus"
)

const (
	maxUploadBytes   = 50 * 1024 * 1024
	minCloneDuration = 30 // seconds
	maxVoiceNameLen  = 32
)

var allowedUploadExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// ValidationError is bad user input: reported as-is, state unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// validateUpload checks a clone-source file before any bytes are downloaded.
// Duration is only checked when the transport reported one.
func validateUpload(file *bus.FileUpload) *ValidationError {
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !allowedUploadExtensions[ext] {
		return &ValidationError{Reason: msgBadFileFormat}
	}
	if file.Size > maxUploadBytes {
		return &ValidationError{Reason: msgFileTooLarge}
	}
	if file.Duration > 0 && file.Duration < minCloneDuration {
		return &ValidationError{Reason: msgFileTooShort}
	}
	return nil
}

// validateVoiceName gates the display name for a pending clone.
func validateVoiceName(name string) *ValidationError {
	if utf8.RuneCountInString(name) > maxVoiceNameLen {
		return &ValidationError{Reason: msgNameTooLong}
	}
	return nil
}

// probeMP3Duration decodes an mp3 payload and returns its length in seconds,
// or 0 when the payload cannot be decoded. Used as a fallback when the
// transport did not report a duration (document uploads).
func probeMP3Duration(data []byte) int {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return 0
	}
	// Length is decoded PCM bytes: 2 channels x 2 bytes per sample.
	return int(decoder.Length() / 4 / int64(sampleRate))
}
