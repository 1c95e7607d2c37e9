package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable/internal/controller/common"
	"github.com/Freeeeeet/timetable/internal/controller/common/formatting"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var scheduleTitles = map[model.Dimension]string{
	model.DimensionTeacher: "Преподаватель",
	model.DimensionGroup:   "Группа",
	model.DimensionRoom:    "Аудитория",
}

var scheduleCommands = map[model.Dimension]string{
	model.DimensionTeacher: "/teacher",
	model.DimensionGroup:   "/group",
	model.DimensionRoom:    "/room",
}

// HandleTeacherSchedule обрабатывает команду /teacher <id>
func (h *Handlers) HandleTeacherSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleSchedule(ctx, b, update, model.DimensionTeacher)
}

// HandleGroupSchedule обрабатывает команду /group <id>
func (h *Handlers) HandleGroupSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleSchedule(ctx, b, update, model.DimensionGroup)
}

// HandleRoomSchedule обрабатывает команду /room <id>
func (h *Handlers) HandleRoomSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleSchedule(ctx, b, update, model.DimensionRoom)
}

func (h *Handlers) handleSchedule(ctx context.Context, b *bot.Bot, update *models.Update, dim model.Dimension) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	resourceID := commandArgs(update.Message.Text)
	if resourceID == "" {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("Формат:\n%s &lt;id&gt;", scheduleCommands[dim]))
		return
	}

	text, png := h.schedule(ctx, dim, resourceID)
	h.sendMessage(ctx, b, chatID, text)
	if png != nil {
		h.sendPhoto(ctx, b, chatID, png, scheduleTitle(dim, resourceID))
	}
}

// schedule возвращает текст расписания и картинку недели.
// Картинка nil, если занятий нет или её не удалось построить
func (h *Handlers) schedule(ctx context.Context, dim model.Dimension, resourceID string) (string, []byte) {
	reservations, err := h.timetable.ListByResource(ctx, dim, resourceID)
	if err != nil {
		h.logger.Error("Failed to list schedule",
			zap.String("dimension", string(dim)),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return common.ErrorMessage(err), nil
	}

	title := scheduleTitle(dim, resourceID)
	text := formatting.FormatSchedule(title, reservations)
	if len(reservations) == 0 {
		return text, nil
	}

	png, err := common.GenerateWeekImage(title, reservations)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		return text, nil
	}
	return text, png
}

func scheduleTitle(dim model.Dimension, resourceID string) string {
	return scheduleTitles[dim] + " " + resourceID
}
