package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when the destination number is empty
var ErrNoRecipient = errors.New("sms recipient is empty")

// messageCreator is the slice of the Twilio REST API used here
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier sends text messages through the Twilio REST API
type TwilioNotifier struct {
	api    messageCreator
	from   string
	logger *zap.Logger
}

// NewTwilioNotifier creates a notifier bound to an account
func NewTwilioNotifier(accountSID, authToken, from string, logger *zap.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioNotifier(client.Api, from, logger)
}

func newTwilioNotifier(api messageCreator, from string, logger *zap.Logger) *TwilioNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwilioNotifier{api: api, from: from, logger: logger}
}

type sendResult struct {
	sid string
	err error
}

// Send delivers body to the given number and returns the message SID
func (n *TwilioNotifier) Send(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", ErrNoRecipient
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	// The Twilio client takes no context; the call finishes on its own after ctx is done
	done := make(chan sendResult, 1)
	go func() {
		resp, err := n.api.CreateMessage(params)
		if err != nil {
			done <- sendResult{err: err}
			return
		}
		sid := ""
		if resp != nil && resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- sendResult{sid: sid}
	}()

	select {
	case <-ctx.Done():
		n.logger.Warn("SMS send abandoned",
			zap.String("to", MaskPhone(to)),
			zap.Error(ctx.Err()))
		return "", fmt.Errorf("sms send: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			n.logger.Error("Failed to send SMS",
				zap.String("to", MaskPhone(to)),
				zap.Error(res.err))
			return "", fmt.Errorf("failed to send sms: %w", res.err)
		}
		n.logger.Info("SMS sent",
			zap.String("to", MaskPhone(to)),
			zap.String("sid", res.sid))
		return res.sid, nil
	}
}

// LogNotifier records messages in the log instead of sending them
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier for environments without Twilio credentials
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the message and returns a synthetic delivery id
func (n *LogNotifier) Send(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", ErrNoRecipient
	}
	id := "log-" + uuid.NewString()
	n.logger.Info("SMS (log only)",
		zap.String("to", MaskPhone(to)),
		zap.String("body", body),
		zap.String("delivery_id", id))
	return id, nil
}

// MaskPhone keeps the last four digits of a phone number
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i >= len(phone)-4 {
			masked[i] = phone[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}
