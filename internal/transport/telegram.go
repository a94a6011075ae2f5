package transport

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nbuilt/ish-vaqti-bot/internal/engine"
)

const pollTimeoutSeconds = 30

// Bot adapts Telegram long polling to the engine's event/reply boundary.
// It owns nothing but the mapping: all conversation state lives behind the
// engine's session store.
type Bot struct {
	api         *tgbotapi.BotAPI
	engine      *engine.Engine
	adminChatID int64
}

func NewBot(token string, eng *engine.Engine, adminChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Printf("[INFO] authorized as @%s", api.Self.UserName)
	return &Bot{api: api, engine: eng, adminChatID: adminChatID}, nil
}

// Run consumes updates until ctx is cancelled. Each message is handled on
// its own goroutine; the engine's per-identity lock keeps same-user events
// in order without blocking everyone else.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message == nil || upd.Message.From == nil {
				continue
			}
			msg := upd.Message
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	id := engine.Identity{
		TelegramID: strconv.FormatInt(msg.From.ID, 10),
		LastName:   msg.From.LastName,
		FirstName:  msg.From.FirstName,
	}

	reply := b.engine.Handle(ctx, id, eventFromMessage(msg))
	if reply.Text == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply.Text)
	switch reply.Keyboard {
	case engine.KeyboardContact:
		out.ReplyMarkup = contactKeyboard()
	case engine.KeyboardMain:
		out.ReplyMarkup = mainKeyboard()
	}
	if _, err := b.api.Send(out); err != nil {
		log.Printf("[WARN] send to chat %d: %v", msg.Chat.ID, err)
	}
}

func eventFromMessage(msg *tgbotapi.Message) engine.Event {
	switch {
	case msg.Contact != nil:
		return engine.Contact{Phone: msg.Contact.PhoneNumber}
	case msg.Location != nil:
		return engine.Location{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	case len(msg.Photo) > 0:
		// Largest size last; its file ID is the opaque proof token.
		return engine.Photo{Token: msg.Photo[len(msg.Photo)-1].FileID}
	default:
		return engine.Command{Text: msg.Text}
	}
}

// SendAdmin delivers operator-facing text (the daily digest) to the
// configured admin chat.
func (b *Bot) SendAdmin(text string) error {
	if b.adminChatID == 0 {
		return fmt.Errorf("admin chat is not configured")
	}
	_, err := b.api.Send(tgbotapi.NewMessage(b.adminChatID, text))
	return err
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(engine.BtnStart),
			tgbotapi.NewKeyboardButton(engine.BtnEnd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(engine.BtnMonthly),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Raqamni yuborish"),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}
