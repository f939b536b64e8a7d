package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mlutsenko/voiceforge/pkg/bus"
	"github.com/mlutsenko/voiceforge/pkg/catalog"
	"github.com/mlutsenko/voiceforge/pkg/logger"
)

// Provider is the synthesis backend the flows talk to.
type Provider interface {
	ListVoices(ctx context.Context) ([]catalog.Voice, error)
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	CloneVoice(ctx context.Context, name string, samples [][]byte) (catalog.Voice, error)
}

// Catalog is the durable voice cache the flows read and sync.
type Catalog interface {
	ReplaceAll(ctx context.Context, voices []catalog.Voice) error
	Upsert(ctx context.Context, voice catalog.Voice) error
	ListAll(ctx context.Context) ([]catalog.Voice, error)
	ListByLanguage(ctx context.Context, language string) ([]catalog.Voice, error)
}

// Downloader fetches the raw bytes of an uploaded file from its transport.
// The engine calls it only after validation has passed.
type Downloader interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

const userQueueSize = 16

// Engine drives the conversation state machine. Events for one user are
// applied strictly in arrival order on that user's worker; users never block
// each other.
type Engine struct {
	bus      *bus.MessageBus
	provider Provider
	store    Catalog
	sessions *SessionManager

	downloaders map[string]Downloader
	dmu         sync.RWMutex

	workers map[string]chan bus.InboundMessage
	wmu     sync.Mutex
	wg      sync.WaitGroup

	running atomic.Bool
}

func NewEngine(msgBus *bus.MessageBus, provider Provider, store Catalog) *Engine {
	return &Engine{
		bus:         msgBus,
		provider:    provider,
		store:       store,
		sessions:    NewSessionManager(),
		downloaders: make(map[string]Downloader),
		workers:     make(map[string]chan bus.InboundMessage),
	}
}

// RegisterDownloader attaches the file fetcher of a transport channel.
func (e *Engine) RegisterDownloader(channel string, d Downloader) {
	e.dmu.Lock()
	defer e.dmu.Unlock()
	e.downloaders[channel] = d
}

func (e *Engine) downloader(channel string) (Downloader, bool) {
	e.dmu.RLock()
	defer e.dmu.RUnlock()
	d, ok := e.downloaders[channel]
	return d, ok
}

// Run consumes inbound events until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.running.Store(true)
	logger.InfoC("flow", "Conversation engine started")

	for e.running.Load() {
		msg, ok := e.bus.ConsumeInbound(ctx)
		if !ok {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		e.dispatch(ctx, msg)
	}

	e.wmu.Lock()
	for _, queue := range e.workers {
		close(queue)
	}
	e.workers = make(map[string]chan bus.InboundMessage)
	e.wmu.Unlock()

	e.wg.Wait()
	logger.InfoC("flow", "Conversation engine stopped")
	return nil
}

func (e *Engine) Stop() {
	e.running.Store(false)
}

func userKey(msg bus.InboundMessage) string {
	return msg.Channel + ":" + msg.SenderID
}

// dispatch routes the event onto the sender's ordered queue, spawning the
// per-user worker on first contact. A full queue rejects the event rather
// than blocking other users.
func (e *Engine) dispatch(ctx context.Context, msg bus.InboundMessage) {
	key := userKey(msg)

	e.wmu.Lock()
	queue, ok := e.workers[key]
	if !ok {
		queue = make(chan bus.InboundMessage, userQueueSize)
		e.workers[key] = queue
		e.wg.Add(1)
		go e.worker(ctx, queue)
	}
	e.wmu.Unlock()

	select {
	case queue <- msg:
	default:
		logger.WarnCF("flow", "User event queue full, dropping event", map[string]any{
			"user": key,
		})
	}
}

func (e *Engine) worker(ctx context.Context, queue chan bus.InboundMessage) {
	defer e.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-queue:
			if !ok {
				return
			}
			e.HandleEvent(ctx, msg)
		}
	}
}

// HandleEvent applies a single user event to that user's session. Callers
// must not invoke it concurrently for the same user.
func (e *Engine) HandleEvent(ctx context.Context, msg bus.InboundMessage) {
	switch {
	case msg.Command != "":
		e.handleCommand(ctx, msg)
	case msg.Callback != "":
		e.handleCallback(ctx, msg)
	case msg.File != nil:
		e.handleFile(ctx, msg)
	case msg.Text != "":
		e.handleText(ctx, msg)
	}
}

func (e *Engine) handleCommand(ctx context.Context, msg bus.InboundMessage) {
	switch msg.Command {
	case "start":
		e.bus.PublishOutbound(bus.OutboundMessage{
			Channel:      msg.Channel,
			ChatID:       msg.ChatID,
			Content:      msgGreeting,
			MainKeyboard: true,
		})
	case "generate":
		e.startGenerate(ctx, msg)
	case "sync_voices":
		e.syncVoices(ctx, msg)
	case "add_voice":
		e.startClone(msg)
	default:
		logger.DebugCF("flow", "Ignoring unknown command", map[string]any{
			"command": msg.Command,
		})
	}
}

// startGenerate enters the browse-and-speak flow. An empty catalog keeps the
// user idle and points them at /sync_voices.
func (e *Engine) startGenerate(ctx context.Context, msg bus.InboundMessage) {
	voices, err := e.store.ListAll(ctx)
	if err != nil {
		e.reportStorage(msg, err)
		return
	}
	if len(voices) == 0 {
		e.send(msg, msgNoVoices)
		return
	}

	e.sessions.Update(userKey(msg), func(s *Session) {
		*s = Session{Step: StepChoosingLanguage}
	})
	e.sendMenu(msg, msgChooseLanguage, catalog.LanguageMenu(voices, 0))
}

// syncVoices is a single-shot command: it never touches the session, so a
// failure leaves the user's current flow in place.
func (e *Engine) syncVoices(ctx context.Context, msg bus.InboundMessage) {
	e.send(msg, msgSyncStarted)

	voices, err := e.provider.ListVoices(ctx)
	if err != nil {
		e.send(msg, fmt.Sprintf("❌ Ошибка синхронизации голосов: %v", err))
		return
	}

	if err := e.store.ReplaceAll(ctx, voices); err != nil {
		e.reportStorage(msg, err)
		return
	}

	logger.InfoCF("flow", "Voice catalog synced", map[string]any{
		"voices": len(voices),
	})
	e.send(msg, msgSyncDone)
}

// startClone enters the clone flow, discarding whatever the user had going.
func (e *Engine) startClone(msg bus.InboundMessage) {
	e.sessions.Update(userKey(msg), func(s *Session) {
		*s = Session{Step: StepAwaitingAudioFile}
	})
	e.sendMenu(msg, msgCloneIntro, catalog.CancelMenu())
}

func (e *Engine) handleCallback(ctx context.Context, msg bus.InboundMessage) {
	payload, err := catalog.ParsePayload(msg.Callback)
	if err != nil {
		logger.DebugCF("flow", "Ignoring malformed callback", map[string]any{
			"data": msg.Callback,
		})
		return
	}

	key := userKey(msg)
	session := e.sessions.GetOrCreate(key)

	switch payload.Kind {
	case catalog.PayloadKindCancel:
		e.sessions.Clear(key)
		e.edit(msg, msgCancelled, nil)

	case catalog.PayloadKindNoop:
		// inert page indicator

	case catalog.PayloadKindPage:
		if session.Step != StepChoosingLanguage {
			return
		}
		voices, err := e.store.ListAll(ctx)
		if err != nil {
			e.reportStorage(msg, err)
			return
		}
		menu := catalog.LanguageMenu(voices, payload.Page)
		e.edit(msg, "", &menu)

	case catalog.PayloadKindLang:
		if session.Step != StepChoosingLanguage {
			return
		}
		voices, err := e.store.ListByLanguage(ctx, payload.Language)
		if err != nil {
			e.reportStorage(msg, err)
			return
		}
		e.sessions.Update(key, func(s *Session) { s.Step = StepChoosingVoice })
		menu := catalog.VoiceMenu(voices, payload.Language)
		e.edit(msg, fmt.Sprintf("Выбранный язык: %s\nВыберите голос:", payload.Language), &menu)

	case catalog.PayloadKindVoice:
		if session.Step != StepChoosingVoice {
			return
		}
		e.sessions.Update(key, func(s *Session) {
			s.Step = StepAwaitingText
			s.VoiceID = payload.VoiceID
		})
		menu := catalog.CancelMenu()
		e.edit(msg, msgSendText, &menu)

	case catalog.PayloadKindBack:
		if session.Step != StepChoosingVoice {
			return
		}
		voices, err := e.store.ListAll(ctx)
		if err != nil {
			e.reportStorage(msg, err)
			return
		}
		e.sessions.Update(key, func(s *Session) { s.Step = StepChoosingLanguage })
		menu := catalog.LanguageMenu(voices, 0)
		e.edit(msg, msgChooseLanguage, &menu)
	}
}

func (e *Engine) handleFile(ctx context.Context, msg bus.InboundMessage) {
	key := userKey(msg)
	session := e.sessions.GetOrCreate(key)
	if session.Step != StepAwaitingAudioFile {
		return
	}

	if verr := validateUpload(msg.File); verr != nil {
		e.send(msg, verr.Reason)
		return
	}

	e.send(msg, msgDownloading)

	d, ok := e.downloader(msg.Channel)
	if !ok {
		logger.ErrorCF("flow", "No downloader for channel", map[string]any{
			"channel": msg.Channel,
		})
		e.sessions.Clear(key)
		e.send(msg, "❌ Ошибка при обработке файла: канал не поддерживает загрузку")
		return
	}

	data, err := d.Fetch(ctx, msg.File.ID)
	if err != nil {
		e.sessions.Clear(key)
		e.send(msg, fmt.Sprintf("❌ Ошибка при обработке файла: %v", err))
		return
	}

	// Document uploads carry no duration; for mp3 we can still measure it.
	if msg.File.Duration == 0 && strings.EqualFold(filepath.Ext(msg.File.Name), ".mp3") {
		if secs := probeMP3Duration(data); secs > 0 && secs < minCloneDuration {
			e.send(msg, msgFileTooShort)
			return
		}
	}

	e.sessions.Update(key, func(s *Session) {
		s.Step = StepAwaitingVoiceName
		s.PendingAudio = data
	})
	e.sendMenu(msg, msgFileStored, catalog.CancelMenu())
}

func (e *Engine) handleText(ctx context.Context, msg bus.InboundMessage) {
	session := e.sessions.GetOrCreate(userKey(msg))
	switch session.Step {
	case StepAwaitingText:
		e.synthesizeText(ctx, msg, session)
	case StepAwaitingVoiceName:
		e.cloneWithName(ctx, msg, session)
	default:
		// free text outside a flow is not an event
	}
}

// synthesizeText finishes the browse-and-speak flow. Success and provider
// failure both land back in idle; the attempt is never retried.
func (e *Engine) synthesizeText(ctx context.Context, msg bus.InboundMessage, session Session) {
	key := userKey(msg)

	audio, err := e.provider.Synthesize(ctx, msg.Text, session.VoiceID)
	e.sessions.Clear(key)
	if err != nil {
		e.send(msg, fmt.Sprintf("❌ Ошибка при генерации речи: %v", err))
		return
	}

	path, err := writeTempAudio(audio)
	if err != nil {
		logger.ErrorCF("flow", "Failed to stage synthesized audio", map[string]any{
			"error": err.Error(),
		})
		e.send(msg, fmt.Sprintf("❌ Ошибка при генерации речи: %v", err))
		return
	}

	e.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Audio: &bus.AudioAttachment{
			Path:    path,
			Caption: msgAudioCaption,
		},
	})
}

// cloneWithName finishes the clone flow. The held audio is dropped on every
// outcome except the name-too-long rejection.
func (e *Engine) cloneWithName(ctx context.Context, msg bus.InboundMessage, session Session) {
	if verr := validateVoiceName(msg.Text); verr != nil {
		e.send(msg, verr.Reason)
		return
	}

	key := userKey(msg)
	e.send(msg, msgCloneStarted)

	voice, err := e.provider.CloneVoice(ctx, msg.Text, [][]byte{session.PendingAudio})
	e.sessions.Clear(key)
	if err != nil {
		e.send(msg, fmt.Sprintf(
			"❌ Ошибка при клонировании голоса:\n%v\n\nУбедитесь, что аудиофайл соответствует требованиям", err))
		return
	}

	voice.Gender = catalog.GenderCustom
	if err := e.store.Upsert(ctx, voice); err != nil {
		e.reportStorage(msg, err)
		return
	}

	logger.InfoCF("flow", "Voice cloned and cached", map[string]any{
		"voice_id": voice.VoiceID,
	})
	e.send(msg, fmt.Sprintf(
		"✅ Голос '%s' успешно склонирован!\n\nИспользуйте команду /generate чтобы начать использовать этот голос.",
		msg.Text))
}

func (e *Engine) send(msg bus.InboundMessage, content string) {
	e.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: content,
	})
}

func (e *Engine) sendMenu(msg bus.InboundMessage, content string, menu catalog.Menu) {
	e.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: content,
		Menu:    &menu,
	})
}

// edit rewrites the menu message the tapped button belongs to. Without a
// message id in the event it degrades to a fresh send.
func (e *Engine) edit(msg bus.InboundMessage, content string, menu *catalog.Menu) {
	out := bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: content,
		Menu:    menu,
	}
	if id, err := strconv.Atoi(msg.Metadata["message_id"]); err == nil && id > 0 {
		out.EditMessageID = id
	}
	e.bus.PublishOutbound(out)
}

func (e *Engine) reportStorage(msg bus.InboundMessage, err error) {
	if errors.Is(err, catalog.ErrStorageUnavailable) {
		logger.ErrorCF("flow", "Voice storage unavailable", map[string]any{
			"error": err.Error(),
		})
	} else {
		logger.ErrorCF("flow", "Storage operation failed", map[string]any{
			"error": err.Error(),
		})
	}
	e.send(msg, msgStorageFailure)
}

// writeTempAudio stages audio bytes in a temp file for the transport to
// attach. The transport removes the file once the send finishes.
func writeTempAudio(audio []byte) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("voiceforge-tts-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp audio file: %w", err)
	}
	return path, nil
}
