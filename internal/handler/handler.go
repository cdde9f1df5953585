package handler

import (
	"github.com/go-telegram/bot"

	"github.com/perchik2875/ONI/internal/config"
	"github.com/perchik2875/ONI/internal/service"
	"github.com/perchik2875/ONI/internal/session"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	sessions    session.Manager
	users       *service.UserService
	tasks       *service.TaskService
	submissions *service.SubmissionService
	withdrawals *service.WithdrawalService
	broadcasts  *service.BroadcastService
	preview     *service.LinkPreview
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Sessions    session.Manager
	Users       *service.UserService
	Tasks       *service.TaskService
	Submissions *service.SubmissionService
	Withdrawals *service.WithdrawalService
	Broadcasts  *service.BroadcastService
	Preview     *service.LinkPreview
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		sessions:    deps.Sessions,
		users:       deps.Users,
		tasks:       deps.Tasks,
		submissions: deps.Submissions,
		withdrawals: deps.Withdrawals,
		broadcasts:  deps.Broadcasts,
		preview:     deps.Preview,
		botUsername: deps.BotUsername,
	}
}
