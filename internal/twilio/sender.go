package twilio

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Sender delivers outbound WhatsApp messages through Twilio's REST API.
type Sender struct {
	client         *twilio.RestClient
	from           string
	statusCallback string
	log            *zap.Logger
}

// NewSender builds a Sender. timeout bounds every REST call so a slow
// recipient cannot stall a notification batch. statusCallback, when
// non-empty, is attached to each message so Twilio reports delivery
// outcomes back to the webhook server.
func NewSender(accountSID, authToken, from, statusCallback string, timeout time.Duration, log *zap.Logger) *Sender {
	httpClient := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
	}
	httpClient.SetTimeout(timeout)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
		Client:   httpClient,
	})

	return &Sender{
		client:         rest,
		from:           from,
		statusCallback: statusCallback,
		log:            log,
	}
}

// Send delivers one message to the given recipient. twilio-go does not
// accept a context, so cancellation is checked up front and the REST
// call itself is bounded by the client timeout.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)
	if s.statusCallback != "" {
		params.SetStatusCallback(s.statusCallback)
	}

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}

	if msg.Sid != nil {
		s.log.Debug("message queued", zap.String("to", to), zap.String("sid", *msg.Sid))
	}
	return nil
}
