package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command, menu button and callback handlers on the
// bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)

	// Main menu buttons
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnTasks, bot.MatchTypeExact, h.handleShowTasks)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnBalance, bot.MatchTypeExact, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnReferral, bot.MatchTypeExact, h.handleReferral)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnWithdraw, bot.MatchTypeExact, h.handleWithdraw)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnWithdrawCard, bot.MatchTypeExact, h.handleWithdrawCard)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnWithdrawWallet, bot.MatchTypeExact, h.handleWithdrawWallet)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnBack, bot.MatchTypeExact, h.handleBack)

	// Admin panel buttons
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnAdmin, bot.MatchTypeExact, h.handleAdminPanel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnMainMenu, bot.MatchTypeExact, h.handleMainMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnStats, bot.MatchTypeExact, h.handleStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnAddTask, bot.MatchTypeExact, h.handleAddTask)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnTaskList, bot.MatchTypeExact, h.handleTaskList)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnDeleteTask, bot.MatchTypeExact, h.handleDeleteTaskMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnUserList, bot.MatchTypeExact, h.handleUserList)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnBroadcast, bot.MatchTypeExact, h.handleBroadcastStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnPaymentQueue, bot.MatchTypeExact, h.handlePaymentQueue)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnCompletionQueue, bot.MatchTypeExact, h.handleCompletionQueue)

	// Browse and submission callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbTakeTask, bot.MatchTypePrefix, h.handleTakeTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbPrevTask, bot.MatchTypeExact, h.handlePrevTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbNextTask, bot.MatchTypeExact, h.handleNextTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbAddMoreProof, bot.MatchTypeExact, h.handleAddMoreProof)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbProofsDone, bot.MatchTypeExact, h.handleProofsDone)

	// Moderation callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbVerifyTask, bot.MatchTypePrefix, h.handleVerifyTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbRejectTask, bot.MatchTypePrefix, h.handleRejectTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbApprovePayment, bot.MatchTypePrefix, h.handleApprovePayment)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbRejectPayment, bot.MatchTypePrefix, h.handleRejectPayment)

	// Task management callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbConfirmDelete, bot.MatchTypePrefix, h.handleConfirmDeleteTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbFinalDelete, bot.MatchTypePrefix, h.handleFinalDeleteTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbCancelDelete, bot.MatchTypeExact, h.handleCancelDelete)

	// User management callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbToggleBan, bot.MatchTypePrefix, h.handleToggleBan)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbUserDetails, bot.MatchTypePrefix, h.handleUserDetails)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbBackToUsers, bot.MatchTypeExact, h.handleBackToUsers)

	// Broadcast callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbConfirmBroadcast, bot.MatchTypeExact, h.handleConfirmBroadcast)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbCancelBroadcast, bot.MatchTypeExact, h.handleCancelBroadcast)

	// Flow answers (typed amounts, proofs, broadcast content) arrive
	// through the default handler; see HandleDefault.
}
