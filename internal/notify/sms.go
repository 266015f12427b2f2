package notify

import (
	"paradise-tours/pkg/utils"

	"go.uber.org/zap"
)

// SMSSender delivers a short text message to a phone number.
type SMSSender interface {
	Send(to, body string) error
}

// logSMSSender stands in for a real SMS gateway. Messages are logged
// with the gateway credentials redacted.
type logSMSSender struct {
	cfg utils.SMSConfig
	log *zap.Logger
}

func NewSMSSender(cfg utils.SMSConfig, log *zap.Logger) SMSSender {
	return &logSMSSender{
		cfg: cfg,
		log: log.With(zap.String("sms", "log")),
	}
}

func (s *logSMSSender) Send(to, body string) error {
	if !s.cfg.Enabled {
		return nil
	}

	s.log.Info("SMS dispatched",
		zap.String("to", to),
		zap.String("from", s.cfg.FromNumber),
		zap.String("body", body),
	)
	return nil
}
