package handler

import (
	"github.com/go-telegram/bot/models"

	tg "github.com/perchik2875/ONI/internal/telegram"
)

// Main menu button labels. Text handlers match on these exactly.
const (
	btnTasks    = "📌 Доступные задания"
	btnBalance  = "💰 Мой баланс"
	btnReferral = "👥 Реферальная программа"
	btnWithdraw = "💸 Вывод средств"
	btnAdmin    = "🔐 Админ-панель"

	btnWithdrawCard   = "💳 Вывод на карту"
	btnWithdrawWallet = "🤖 Вывод через CryptoBot"
	btnBack           = "🔙 Назад"
)

// Admin panel button labels.
const (
	btnStats           = "📊 Статистика"
	btnAddTask         = "📝 Добавить задание"
	btnTaskList        = "📋 Список заданий"
	btnUserList        = "👥 Список пользователей"
	btnDeleteTask      = "❌ Удалить задание"
	btnBroadcast       = "📢 Рассылка"
	btnPaymentQueue    = "📤 Заявки на вывод"
	btnCompletionQueue = "📤 Заявки на выполнение"
	btnMainMenu        = "🏠 Главное меню"
)

func (h *Handler) mainMenu(telegramID int64) *models.ReplyKeyboardMarkup {
	rows := [][]string{
		{btnTasks, btnBalance},
		{btnReferral, btnWithdraw},
	}
	if h.cfg.IsAdmin(telegramID) {
		rows = append(rows, []string{btnAdmin})
	}
	return tg.ReplyKeyboard(rows...)
}

func adminMenu() *models.ReplyKeyboardMarkup {
	return tg.ReplyKeyboard(
		[]string{btnStats, btnAddTask},
		[]string{btnTaskList, btnUserList},
		[]string{btnDeleteTask, btnBroadcast},
		[]string{btnPaymentQueue, btnCompletionQueue, btnMainMenu},
	)
}

func withdrawMenu() *models.ReplyKeyboardMarkup {
	return tg.ReplyKeyboard(
		[]string{btnWithdrawCard},
		[]string{btnWithdrawWallet},
		[]string{btnBack},
	)
}
