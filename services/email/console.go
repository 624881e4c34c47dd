package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"

	"github.com/pacclub/pacsite/core"
)

var (
	// SentMessages collects everything "sent" in DEV/TEST mode so tests
	// can assert on it.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	from       mail.Address
	subjPrefix string
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns an EmailService that prints messages to the
// standard logger instead of delivering them.
func NewConsoleService(appName, fromEmail string) core.EmailService {
	return &consoleService{
		from:       mail.Address{Name: appName, Address: fromEmail},
		subjPrefix: "[" + appName + "] ",
	}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		mu.Lock()
		SentMessages = append(SentMessages, *msg)
		mu.Unlock()
		svc.print(msg)
	}
}

func (svc *consoleService) print(msg *core.EmailMessage) {
	body := &strings.Builder{}
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.from.String())
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "%s\r\n", msg.TextContent)
	log.Println(body.String())
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
