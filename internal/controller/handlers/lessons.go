package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable/internal/controller/common"
	"github.com/Freeeeeet/timetable/internal/controller/common/formatting"
	"github.com/Freeeeeet/timetable/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleAddLesson обрабатывает команду /addlesson.
// Без аргументов бот ждёт параметры занятия следующим сообщением
func (h *Handlers) HandleAddLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if args == "" {
		h.stateManager.SetState(update.Message.From.ID, state.StateAddLesson)
		h.sendMessage(ctx, b, chatID, "➕ Отправьте параметры занятия одним сообщением.\n\n"+addLessonUsage+"\n\nОтмена: /cancel")
		return
	}

	h.sendMessage(ctx, b, chatID, h.addLesson(ctx, update.Message.From.ID, args))
}

// HandleRemoveLesson обрабатывает команду /removelesson
func (h *Handlers) HandleRemoveLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if args == "" {
		h.stateManager.SetState(update.Message.From.ID, state.StateRemoveLesson)
		h.sendMessage(ctx, b, chatID, "🗑 Отправьте ID занятия.\n\nОтмена: /cancel")
		return
	}

	h.sendMessage(ctx, b, chatID, h.removeLesson(ctx, update.Message.From.ID, args))
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID, ok := senderID(update)
	if !ok || update.Message.Text == "" || update.Message.Text[0] == '/' {
		return
	}

	reply := h.continueDialog(ctx, telegramID, update.Message.Text)
	if reply != "" {
		h.sendMessage(ctx, b, update.Message.Chat.ID, reply)
	}
}

// continueDialog завершает начатый диалог. Пустой ответ - диалога не было
func (h *Handlers) continueDialog(ctx context.Context, telegramID int64, text string) string {
	switch h.stateManager.Take(telegramID) {
	case state.StateAddLesson:
		return h.addLesson(ctx, telegramID, text)
	case state.StateRemoveLesson:
		return h.removeLesson(ctx, telegramID, text)
	default:
		return ""
	}
}

// addLesson создаёт занятие и возвращает ответ пользователю
func (h *Handlers) addLesson(ctx context.Context, telegramID int64, args string) string {
	if !h.isAdmin(telegramID) {
		return "❌ Изменять расписание могут только администраторы."
	}

	candidate, err := parseLessonArgs(args)
	if err != nil {
		return parseLessonError(err)
	}

	reservation, err := h.timetable.ProposeReservation(ctx, candidate)
	if err != nil {
		h.logger.Info("Lesson rejected",
			zap.Int64("telegram_id", telegramID),
			zap.String("teacher_id", candidate.TeacherID),
			zap.String("group_id", candidate.GroupID),
			zap.Error(err),
		)
		return common.ErrorMessage(err)
	}

	return "✅ Занятие добавлено\n\n" +
		"<b>" + formatting.GetWeekdayName(reservation.Weekday) + "</b>\n" +
		formatting.FormatReservation(reservation)
}

// removeLesson удаляет занятие по ID и возвращает ответ пользователю
func (h *Handlers) removeLesson(ctx context.Context, telegramID int64, args string) string {
	if !h.isAdmin(telegramID) {
		return "❌ Изменять расписание могут только администраторы."
	}

	id, ok := parseLessonID(args)
	if !ok {
		return "❌ Неверный ID занятия.\n\n" + removeLessonUsage
	}

	removed, err := h.timetable.DeleteReservation(ctx, id)
	if err != nil {
		h.logger.Error("Failed to remove lesson", zap.String("reservation_id", id.String()), zap.Error(err))
		return common.ErrorMessage(err)
	}
	if !removed {
		return "❌ Занятие не найдено"
	}

	h.logger.Info("Lesson removed",
		zap.Int64("telegram_id", telegramID),
		zap.String("reservation_id", id.String()),
	)
	return "✅ Занятие удалено"
}
