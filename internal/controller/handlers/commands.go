package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Расписание:\n" +
	"/teacher &lt;id&gt; - Расписание преподавателя\n" +
	"/group &lt;id&gt; - Расписание группы\n" +
	"/room &lt;id&gt; - Занятость аудитории\n\n" +
	"Для администраторов:\n" +
	"/addlesson - Добавить занятие\n" +
	"/removelesson &lt;id&gt; - Удалить занятие\n" +
	"/cancel - Отменить ввод\n\n" +
	"Занятие не добавится, если преподаватель, группа или аудитория уже заняты в это время."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 Привет! Это бот расписания занятий.\n\n"+
			"Он показывает недельное расписание преподавателей, групп и аудиторий "+
			"и не допускает пересечений.\n\n"+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID, ok := senderID(update)
	if !ok {
		return
	}

	if h.stateManager.Take(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}
