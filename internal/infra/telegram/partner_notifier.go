// internal/infra/telegram/partner_notifier.go
package telegram

import (
	"context"
	"fmt"

	"cyclesync/internal/domain/notify"
	domainTelegram "cyclesync/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// PartnerNotifier forwards successful actions to a partner's Telegram chat.
// Error notifications stay with the user who caused them.
type PartnerNotifier struct {
	client domainTelegram.Client
	chatID int64
	logger *logrus.Entry
}

func NewPartnerNotifier(c domainTelegram.Client, chatID int64, logger *logrus.Entry) *PartnerNotifier {
	return &PartnerNotifier{client: c, chatID: chatID, logger: logger}
}

func (p *PartnerNotifier) Notify(_ context.Context, n notify.Notification) {
	if n.Severity == notify.SeverityDestructive {
		return
	}
	text := fmt.Sprintf("CycleSync: %s", n.Description)
	logCtx := p.logger.WithField("chat_id", p.chatID)

	if err := p.client.SendMessage(p.chatID, text, nil); err != nil {
		logCtx.WithError(err).Error("Failed to notify partner")
		return
	}
	logCtx.Info("Partner notified")
}
