package notification

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers one intent over one channel. Implementations decide
// whether an intent applies to them and return nil when it does not.
type Sender interface {
	Name() string
	Send(ctx context.Context, in Intent) error
}

// EmailSender is the outbound-email adapter. Actual SMTP delivery is a
// collaborator concern; this adapter records the attempt.
type EmailSender struct {
	log *zap.Logger
}

func NewEmailSender(log *zap.Logger) *EmailSender {
	return &EmailSender{log: log}
}

func (s *EmailSender) Name() string { return "email" }

func (s *EmailSender) Send(_ context.Context, in Intent) error {
	if in.Recipient == RecipientCustomer && in.ClientEmail == "" {
		return nil
	}

	s.log.Info("email notification",
		zap.String("type", string(in.Type)),
		zap.String("recipient", string(in.Recipient)),
		zap.String("to", in.ClientEmail),
		zap.Uint("business_id", in.BusinessID),
	)
	return nil
}

// SMSSender mirrors EmailSender for phone-reachable customers.
type SMSSender struct {
	log *zap.Logger
}

func NewSMSSender(log *zap.Logger) *SMSSender {
	return &SMSSender{log: log}
}

func (s *SMSSender) Name() string { return "sms" }

func (s *SMSSender) Send(_ context.Context, in Intent) error {
	if in.Recipient != RecipientCustomer || in.ClientPhone == "" {
		return nil
	}

	s.log.Info("sms notification",
		zap.String("type", string(in.Type)),
		zap.String("to", in.ClientPhone),
		zap.Uint("business_id", in.BusinessID),
	)
	return nil
}
