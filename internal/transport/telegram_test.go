package transport

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Nbuilt/ish-vaqti-bot/internal/engine"
)

func TestEventFromMessage(t *testing.T) {
	ev := eventFromMessage(&tgbotapi.Message{Contact: &tgbotapi.Contact{PhoneNumber: "+99890"}})
	assert.Equal(t, engine.Contact{Phone: "+99890"}, ev)

	ev = eventFromMessage(&tgbotapi.Message{Location: &tgbotapi.Location{Latitude: 41.3, Longitude: 69.2}})
	assert.Equal(t, engine.Location{Lat: 41.3, Lon: 69.2}, ev)

	ev = eventFromMessage(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{
		{FileID: "small"}, {FileID: "large"},
	}})
	assert.Equal(t, engine.Photo{Token: "large"}, ev, "largest photo size carries the proof token")

	ev = eventFromMessage(&tgbotapi.Message{Text: engine.BtnStart})
	assert.Equal(t, engine.Command{Text: engine.BtnStart}, ev)
}

func TestKeyboardLayouts(t *testing.T) {
	main := mainKeyboard()
	assert.Len(t, main.Keyboard, 2)
	assert.Equal(t, engine.BtnStart, main.Keyboard[0][0].Text)
	assert.Equal(t, engine.BtnEnd, main.Keyboard[0][1].Text)
	assert.Equal(t, engine.BtnMonthly, main.Keyboard[1][0].Text)
	assert.True(t, main.ResizeKeyboard)

	contact := contactKeyboard()
	assert.True(t, contact.Keyboard[0][0].RequestContact)
	assert.True(t, contact.OneTimeKeyboard)
}
