package channels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/mlutsenko/voiceforge/pkg/bus"
	"github.com/mlutsenko/voiceforge/pkg/catalog"
	"github.com/mlutsenko/voiceforge/pkg/config"
	"github.com/mlutsenko/voiceforge/pkg/logger"
)

type TelegramChannel struct {
	*BaseChannel
	bot        *telego.Bot
	config     config.TelegramConfig
	httpClient *http.Client
}

const telegramDownloadTimeout = 60 * time.Second

func NewTelegramChannel(cfg config.TelegramConfig, msgBus *bus.MessageBus) (*TelegramChannel, error) {
	var opts []telego.BotOption
	httpClient := &http.Client{Timeout: telegramDownloadTimeout}

	if cfg.Proxy != "" {
		proxyURL, parseErr := url.Parse(cfg.Proxy)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, parseErr)
		}
		transport := &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		httpClient.Transport = transport
		opts = append(opts, telego.WithHTTPClient(&http.Client{Transport: transport}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramChannel{
		BaseChannel: NewBaseChannel("telegram", msgBus, cfg.AllowFrom),
		bot:         bot,
		config:      cfg,
		httpClient:  httpClient,
	}, nil
}

func (c *TelegramChannel) Start(ctx context.Context) error {
	logger.InfoC("telegram", "Starting Telegram bot (polling mode)...")

	updates, err := c.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 30,
	})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	c.setRunning(true)
	logger.InfoCF("telegram", "Telegram bot connected", map[string]any{
		"username": c.bot.Username(),
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					logger.InfoC("telegram", "Updates channel closed")
					return
				}
				if update.Message != nil {
					c.handleMessage(update.Message)
				}
				if update.CallbackQuery != nil {
					c.handleCallback(ctx, update.CallbackQuery)
				}
			}
		}
	}()

	return nil
}

func (c *TelegramChannel) Stop(ctx context.Context) error {
	logger.InfoC("telegram", "Stopping Telegram bot...")
	c.setRunning(false)
	return nil
}

func (c *TelegramChannel) handleMessage(message *telego.Message) {
	user := message.From
	if user == nil {
		return
	}

	senderID := fmt.Sprintf("%d", user.ID)
	if user.Username != "" {
		senderID = fmt.Sprintf("%d|%s", user.ID, user.Username)
	}

	msg := bus.InboundMessage{
		SenderID: senderID,
		ChatID:   fmt.Sprintf("%d", message.Chat.ID),
		Metadata: map[string]string{
			"message_id": fmt.Sprintf("%d", message.MessageID),
			"user_id":    fmt.Sprintf("%d", user.ID),
			"username":   user.Username,
		},
	}

	switch {
	case message.Audio != nil:
		msg.File = &bus.FileUpload{
			ID:       message.Audio.FileID,
			Name:     message.Audio.FileName,
			Size:     message.Audio.FileSize,
			Duration: message.Audio.Duration,
		}
	case message.Document != nil:
		msg.File = &bus.FileUpload{
			ID:   message.Document.FileID,
			Name: message.Document.FileName,
			Size: message.Document.FileSize,
		}
	case strings.HasPrefix(message.Text, "/"):
		msg.Command = parseCommand(message.Text)
	default:
		if message.Text == "" {
			return
		}
		msg.Text = message.Text
	}

	logger.DebugCF("telegram", "Received message", map[string]any{
		"sender_id": senderID,
		"chat_id":   msg.ChatID,
	})

	c.HandleEvent(msg)
}

// parseCommand strips the slash, arguments and an optional @botname mention.
func parseCommand(text string) string {
	cmd := strings.TrimPrefix(text, "/")
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (c *TelegramChannel) handleCallback(ctx context.Context, query *telego.CallbackQuery) {
	// Acknowledge immediately so the button stops spinning.
	if err := c.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.DebugCF("telegram", "Failed to answer callback query", map[string]any{
			"error": err.Error(),
		})
	}

	if query.Message == nil {
		return
	}

	senderID := fmt.Sprintf("%d", query.From.ID)
	if query.From.Username != "" {
		senderID = fmt.Sprintf("%d|%s", query.From.ID, query.From.Username)
	}

	c.HandleEvent(bus.InboundMessage{
		SenderID: senderID,
		ChatID:   fmt.Sprintf("%d", query.Message.GetChat().ID),
		Callback: query.Data,
		Metadata: map[string]string{
			"message_id": fmt.Sprintf("%d", query.Message.GetMessageID()),
			"user_id":    fmt.Sprintf("%d", query.From.ID),
			"username":   query.From.Username,
		},
	})
}

// Fetch downloads the raw bytes of an uploaded file through the Bot API.
func (c *TelegramChannel) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("file %s has no download path", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bot.FileDownloadURL(file.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return data, nil
}

func (c *TelegramChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("telegram bot not running")
	}

	chatID, err := parseChatID(msg.ChatID)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	if msg.Audio != nil {
		return c.sendAudio(ctx, chatID, msg.Audio)
	}
	if msg.EditMessageID > 0 {
		return c.editMessage(ctx, chatID, msg)
	}

	tgMsg := tu.Message(tu.ID(chatID), msg.Content)
	if msg.Menu != nil {
		tgMsg.ReplyMarkup = inlineKeyboard(msg.Menu)
	} else if msg.MainKeyboard {
		tgMsg.ReplyMarkup = mainKeyboard()
	}

	if _, err := c.bot.SendMessage(ctx, tgMsg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// editMessage rewrites an already delivered menu message. An empty Content
// means only the keyboard changes, as happens on page navigation.
func (c *TelegramChannel) editMessage(ctx context.Context, chatID int64, msg bus.OutboundMessage) error {
	if msg.Content == "" {
		_, err := c.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
			ChatID:      tu.ID(chatID),
			MessageID:   msg.EditMessageID,
			ReplyMarkup: inlineKeyboard(msg.Menu),
		})
		if err != nil {
			return fmt.Errorf("failed to edit reply markup: %w", err)
		}
		return nil
	}

	editMsg := tu.EditMessageText(tu.ID(chatID), msg.EditMessageID, msg.Content)
	if msg.Menu != nil {
		editMsg.ReplyMarkup = inlineKeyboard(msg.Menu)
	}
	if _, err := c.bot.EditMessageText(ctx, editMsg); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// sendAudio uploads the staged temp file and removes it afterwards.
func (c *TelegramChannel) sendAudio(ctx context.Context, chatID int64, audio *bus.AudioAttachment) error {
	defer func() {
		if err := os.Remove(audio.Path); err != nil {
			logger.DebugCF("telegram", "Failed to cleanup temp audio file", map[string]any{
				"file":  audio.Path,
				"error": err.Error(),
			})
		}
	}()

	f, err := os.Open(audio.Path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	params := tu.Audio(tu.ID(chatID), tu.File(f))
	params.Caption = audio.Caption
	params.Title = audio.Title

	if _, err := c.bot.SendAudio(ctx, params); err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}
	return nil
}

func inlineKeyboard(menu *catalog.Menu) *telego.InlineKeyboardMarkup {
	if menu == nil {
		return nil
	}
	rows := make([][]telego.InlineKeyboardButton, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		buttons := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, telego.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Payload,
			})
		}
		rows = append(rows, buttons)
	}
	return tu.InlineKeyboard(rows...)
}

func mainKeyboard() *telego.ReplyKeyboardMarkup {
	kb := tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton("/add_voice")),
		tu.KeyboardRow(tu.KeyboardButton("/sync_voices")),
		tu.KeyboardRow(tu.KeyboardButton("/generate")),
	)
	kb.ResizeKeyboard = true
	return kb
}

func parseChatID(chatIDStr string) (int64, error) {
	var id int64
	_, err := fmt.Sscanf(chatIDStr, "%d", &id)
	return id, err
}
