package webhook

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"standup-bot/internal/service"
	"standup-bot/internal/twilio"
)

// Handler terminates Twilio webhooks. Requests are abstracted down to
// form fields and headers here; nothing below this layer sees HTTP.
type Handler struct {
	standup   *service.StandupService
	validator *twilio.Validator
	baseURL   string
	log       *zap.Logger
}

func NewHandler(standup *service.StandupService, validator *twilio.Validator, baseURL string, log *zap.Logger) *Handler {
	return &Handler{
		standup:   standup,
		validator: validator,
		baseURL:   baseURL,
		log:       log,
	}
}

// twimlResponse is the reply envelope Twilio expects from a messaging webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Webhook handles an inbound WhatsApp message. The signature check runs
// before anything else; an unauthenticated request never reaches
// classification or storage.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}

	if !h.validator.ValidateRequest(h.baseURL, r) {
		h.log.Warn("webhook rejected: invalid signature",
			zap.String("remote", r.RemoteAddr),
		)
		writeError(w, http.StatusForbidden, "invalid signature")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	reply, err := h.standup.HandleMessage(r.Context(), from, body, time.Now())
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Body cannot be empty.")
	case err != nil:
		h.log.Error("webhook handling failed", zap.String("from", from), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeTwiML(w, reply)
	}
}

// StatusCallback receives Twilio delivery status updates for outbound
// messages. Log-only: successes at info, everything else at error.
func (h *Handler) StatusCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}

	sid := r.PostFormValue("MessageSid")
	status := r.PostFormValue("MessageStatus")
	to := r.PostFormValue("To")

	switch status {
	case "sent", "delivered":
		h.log.Info("message status",
			zap.String("sid", sid),
			zap.String("status", status),
			zap.String("to", to),
		)
	default:
		h.log.Error("message not delivered",
			zap.String("sid", sid),
			zap.String("status", status),
			zap.String("to", to),
			zap.String("error_code", r.PostFormValue("ErrorCode")),
			zap.String("error_message", r.PostFormValue("ErrorMessage")),
		)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(twimlResponse{Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
