package controller

import (
	"context"

	"github.com/Freeeeeet/timetable/internal/controller/handlers"
	"github.com/Freeeeeet/timetable/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	timetable handlers.Timetable,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		timetable,
		isAdmin,
		state.NewManager(state.DefaultTTL),
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/teacher", bot.MatchTypePrefix, c.handlers.HandleTeacherSchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/group", bot.MatchTypePrefix, c.handlers.HandleGroupSchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/room", bot.MatchTypePrefix, c.handlers.HandleRoomSchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addlesson", bot.MatchTypePrefix, c.handlers.HandleAddLesson)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/removelesson", bot.MatchTypePrefix, c.handlers.HandleRemoveLesson)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "teacher", Description: "👨‍🏫 Расписание преподавателя"},
		{Command: "group", Description: "👥 Расписание группы"},
		{Command: "room", Description: "🚪 Занятость аудитории"},
		{Command: "addlesson", Description: "➕ Добавить занятие (админ)"},
		{Command: "removelesson", Description: "🗑 Удалить занятие (админ)"},
		{Command: "cancel", Description: "✖️ Отменить ввод"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
