package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/mlutsenko/voiceforge/pkg/catalog"
	"github.com/mlutsenko/voiceforge/pkg/logger"
)

const (
	OpListVoices = "list"
	OpSynthesize = "synthesize"
	OpClone      = "clone"

	synthesisModel = "eleven_multilingual_v2"

	categoryProfessional = "professional"
	categoryCloned       = "cloned"
)

// ProviderError is a non-success response from the provider, tagged with the
// operation that produced it.
type ProviderError struct {
	Op     string
	Status int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("elevenlabs %s failed with status %d", e.Op, e.Status)
}

// Client wraps the three ElevenLabs endpoints the bot uses. Each call runs
// over its own HTTP session and fails fast; retrying is the user's move.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: 120 * time.Second,
	}
}

func (c *Client) httpClient() *http.Client {
	return &http.Client{Timeout: c.timeout}
}

type voiceLabels struct {
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

type providerVoice struct {
	VoiceID  string      `json:"voice_id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Labels   voiceLabels `json:"labels"`
}

type listVoicesResponse struct {
	Voices []providerVoice `json:"voices"`
}

// ListVoices fetches the full roster and keeps only the professional and
// cloned categories, mapped to display language labels.
func (c *Client) ListVoices(ctx context.Context) ([]catalog.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Op: OpListVoices, Status: resp.StatusCode}
	}

	var decoded listVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	var voices []catalog.Voice
	for _, pv := range decoded.Voices {
		switch pv.Category {
		case categoryProfessional:
			voices = append(voices, catalog.Voice{
				VoiceID:  pv.VoiceID,
				Name:     pv.Name,
				Language: catalog.LanguageLabel(pv.Labels.Language),
				Gender:   orDefault(pv.Labels.Gender, "unknown"),
				IsCloned: false,
			})
		case categoryCloned:
			voices = append(voices, catalog.Voice{
				VoiceID:  pv.VoiceID,
				Name:     pv.Name,
				Language: catalog.ClonedLanguageLabel(pv.Labels.Language),
				Gender:   orDefault(pv.Labels.Gender, catalog.GenderCustom),
				IsCloned: true,
			})
		}
		// every other category is dropped on purpose
	}

	logger.InfoCF("elevenlabs", "Fetched voice roster", map[string]any{
		"total": len(decoded.Voices),
		"kept":  len(voices),
	})
	return voices, nil
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize renders text with the given voice and returns raw audio bytes.
// Voice settings are fixed; the bot does not expose tuning.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: synthesisModel,
		VoiceSettings: voiceSettings{
			Stability:       0.4,
			SimilarityBoost: 0.6,
			Style:           0.7,
			UseSpeakerBoost: true,
			Speed:           1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := c.baseURL + "/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Op: OpSynthesize, Status: resp.StatusCode}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	logger.DebugCF("elevenlabs", "Speech synthesized", map[string]any{
		"voice_id":    voiceID,
		"text_length": len(text),
		"size_bytes":  len(audio),
	})
	return audio, nil
}

type cloneResponse struct {
	VoiceID string `json:"voice_id"`
}

// CloneVoice uploads audio samples and returns the resulting voice record.
// The provider does not report a language for clones, so the custom bucket
// label is assigned here.
func (c *Client) CloneVoice(ctx context.Context, name string, samples [][]byte) (catalog.Voice, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("name", name); err != nil {
		return catalog.Voice{}, fmt.Errorf("failed to write name field: %w", err)
	}

	for i, sample := range samples {
		part, err := writer.CreateFormFile("files", fmt.Sprintf("sample_%d.mp3", i))
		if err != nil {
			return catalog.Voice{}, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(sample); err != nil {
			return catalog.Voice{}, fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}

	if err := writer.Close(); err != nil {
		return catalog.Voice{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/voices/add", &requestBody)
	if err != nil {
		return catalog.Voice{}, fmt.Errorf("failed to create clone request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return catalog.Voice{}, fmt.Errorf("clone request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Voice{}, &ProviderError{Op: OpClone, Status: resp.StatusCode}
	}

	var decoded cloneResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return catalog.Voice{}, fmt.Errorf("failed to decode clone response: %w", err)
	}

	logger.InfoCF("elevenlabs", "Voice cloned", map[string]any{
		"voice_id": decoded.VoiceID,
		"name":     name,
	})

	return catalog.Voice{
		VoiceID:  decoded.VoiceID,
		Name:     name,
		Language: catalog.LabelCustom,
		IsCloned: true,
	}, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
