package email

import (
	"context"
	"fmt"
	"regexp"
)

// Message è il payload minimo accettato dal dispatch transazionale.
type Message struct {
	To      string
	Subject string
	Text    string
	From    string // optional, il service applica il default configurato
}

// EmailService astrae il provider di email transazionali.
// Implementazioni: APIEmailService (provider hosted) e smtpEmailService (dev).
type EmailService interface {
	Send(ctx context.Context, msg Message) error
}

// emailRegex è volutamente permissivo: il controllo serio lo fa il provider,
// qui blocchiamo solo gli indirizzi palesemente rotti prima del dispatch.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateAddress controlla il formato del destinatario prima del dispatch.
func ValidateAddress(addr string) error {
	if !emailRegex.MatchString(addr) {
		return fmt.Errorf("invalid recipient address: %q", addr)
	}
	return nil
}

// DispatchError riporta un fallimento lato provider (non-2xx) con il
// body grezzo della risposta allegato.
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("email provider returned %d: %s", e.StatusCode, e.Body)
}
