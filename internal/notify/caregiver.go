package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/onboarding"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// CaregiverAlertCategory tags every guardian alert so providers can report on them separately.
const CaregiverAlertCategory = "caregiver-alert"

var (
	ErrNoRecipient        = errors.New("notify: recipient address is required")
	ErrNoCaregiverContact = errors.New("notify: no caregiver email on file")
)

// ProfileLookup resolves the onboarding profile holding the caregiver contact.
type ProfileLookup interface {
	Get(ctx context.Context, userID string) (onboarding.Profile, error)
}

// CaregiverNotifier e-mails the guardian registered for a user.
type CaregiverNotifier struct {
	email    EmailSender
	profiles ProfileLookup
	replyTo  string
	logger   *logging.Logger
}

func NewCaregiverNotifier(email EmailSender, profiles ProfileLookup, logger *logging.Logger) *CaregiverNotifier {
	if email == nil {
		panic("notify: email sender cannot be nil")
	}
	if profiles == nil {
		panic("notify: profile lookup cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CaregiverNotifier{email: email, profiles: profiles, logger: logger}
}

// WithReplyTo sets the counselor desk address guardians reach when they reply.
func (n *CaregiverNotifier) WithReplyTo(addr string) *CaregiverNotifier {
	n.replyTo = strings.TrimSpace(addr)
	return n
}

// NotifyCaregiver sends subject/body to the guardian of userID.
func (n *CaregiverNotifier) NotifyCaregiver(ctx context.Context, userID, subject, body string) error {
	profile, err := n.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, onboarding.ErrNotFound) {
			return fmt.Errorf("%w: no onboarding profile", ErrNoCaregiverContact)
		}
		return fmt.Errorf("notify: load profile: %w", err)
	}
	if strings.TrimSpace(profile.GuardianEmail) == "" {
		return ErrNoCaregiverContact
	}

	guardianName, guardianPhone := profile.GuardianContact()
	text := caregiverBody(profile.Name, guardianPhone, body)
	msg := EmailMessage{
		To:       profile.GuardianEmail,
		ToName:   guardianName,
		Subject:  subject,
		Body:     text,
		HTML:     "<pre style=\"font-family:inherit;white-space:pre-wrap\">" + html.EscapeString(text) + "</pre>",
		ReplyTo:  n.replyTo,
		Category: CaregiverAlertCategory,
	}
	if err := n.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send caregiver alert: %w", err)
	}
	n.logger.WithUser(userID).Info("caregiver alert sent")
	return nil
}

func caregiverBody(userName, guardianPhone, body string) string {
	var b strings.Builder
	if name := strings.TrimSpace(userName); name != "" {
		fmt.Fprintf(&b, "%s 님의 MindMate 기록에 관한 안내입니다.\n\n", name)
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "등록된 보호자 연락처: %s\n", guardianPhone)
	b.WriteString("긴급한 경우 정신건강위기상담전화 1393 또는 119에 연락하세요.")
	return b.String()
}
