package telegram

import (
	"fmt"

	"ReminderBot/internal/scheduler"
	"ReminderBot/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	BtnRemind = "Напомнить"
	BtnWeek   = "Мои активности на неделю"
)

var popularTZ = []string{
	"Europe/Moscow",
	"Europe/Kaliningrad",
	"Asia/Yekaterinburg",
	"Asia/Novosibirsk",
	"Asia/Vladivostok",
	"Europe/Kiev",
	"Asia/Almaty",
}

func replyKeyboard(rows ...[]string) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, r := range rows {
		row := make([]tgbotapi.KeyboardButton, 0, len(r))
		for _, text := range r {
			row = append(row, tgbotapi.NewKeyboardButton(text))
		}
		kb = append(kb, row)
	}
	m := tgbotapi.NewReplyKeyboard(kb...)
	m.ResizeKeyboard = true
	return m
}

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([]string{BtnRemind, BtnWeek})
}

func tzKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]string, 0, len(popularTZ))
	for _, tz := range popularTZ {
		rows = append(rows, []string{tz})
	}
	return replyKeyboard(rows...)
}

// wizardMarkup maps a wizard keyboard to its Telegram markup; nil keeps the
// current one.
func wizardMarkup(k wizard.Keyboard) interface{} {
	switch k {
	case wizard.KeyboardCancel:
		return replyKeyboard([]string{wizard.BtnCancel})
	case wizard.KeyboardConfirm:
		return replyKeyboard([]string{wizard.BtnConfirm}, []string{wizard.BtnEdit}, []string{wizard.BtnCancel})
	case wizard.KeyboardEdit:
		return replyKeyboard(
			[]string{wizard.BtnEditWhen},
			[]string{wizard.BtnEditWhat},
			[]string{wizard.BtnEditNote},
			[]string{wizard.BtnCancel},
		)
	case wizard.KeyboardMainMenu:
		return mainMenu()
	}
	return nil
}

// ReminderKeyboard is attached to every delivered reminder. The snooze
// button disappears once the limit is used up.
func ReminderKeyboard(eventID int64, snoozes int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if scheduler.CanSnooze(snoozes) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Отложить на 1 час", fmt.Sprintf("%s:%d", cbSnooze, eventID)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("Завершить", fmt.Sprintf("%s:%d", cbDone, eventID)))
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func deleteKeyboard(eventID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Удалить", fmt.Sprintf("%s:%d", cbDelete, eventID)),
	))
}

func noKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
