package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/sirupsen/logrus"

	"vibemusic/internal/httputil"
	"vibemusic/internal/logger"
	"vibemusic/internal/model"
	"vibemusic/internal/transport/http/middleware"
)

// TelegramSecretHeader carries the secret configured with setWebhook.
const TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type TelegramHandler struct {
	telegram      TelegramLinker
	webhookSecret string
	log           *logrus.Entry
}

// NewTelegramHandler accepts a nil linker when the bot is not configured;
// every endpoint then answers 503.
func NewTelegramHandler(telegram TelegramLinker, webhookSecret string) *TelegramHandler {
	return &TelegramHandler{
		telegram:      telegram,
		webhookSecret: webhookSecret,
		log:           logger.For("telegram"),
	}
}

// Token issues a connect token for the caller.
// POST /telegram/token
func (h *TelegramHandler) Token(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if h.telegram == nil {
		httputil.WriteServiceUnavailable(w, model.ErrTelegramDisabled.Error())
		return
	}

	resp, err := h.telegram.IssueConnectToken(userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("issue connect token failed")
		httputil.WriteInternalError(w, "Failed to issue token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Webhook receives Bot API updates. Telegram retries non-2xx responses, so
// anything but a transport or storage failure is acknowledged with 200.
// POST /telegram/webhook
func (h *TelegramHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.telegram == nil {
		httputil.WriteServiceUnavailable(w, model.ErrTelegramDisabled.Error())
		return
	}
	if h.webhookSecret != "" {
		got := r.Header.Get(TelegramSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			httputil.WriteUnauthorized(w, "Invalid webhook secret")
			return
		}
	}

	var update model.TelegramUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		httputil.WriteBadRequest(w, "Invalid update")
		return
	}

	if err := h.telegram.HandleUpdate(r.Context(), &update); err != nil {
		h.log.WithError(err).WithField("update_id", update.UpdateID).Error("handle update failed")
		httputil.WriteInternalError(w, "Failed to process update")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

