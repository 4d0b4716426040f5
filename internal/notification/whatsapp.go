package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsAppService sends WhatsApp messages through the Twilio Messages API.
type WhatsAppService struct {
	api  messageCreator
	from string
}

func NewWhatsAppService(accountSID, authToken, from string) *WhatsAppService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &WhatsAppService{api: client.Api, from: whatsAppAddress(from)}
}

func (s *WhatsAppService) SendWhatsApp(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddress(to))
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}

// whatsAppAddress prefixes an E.164 number with the whatsapp: channel.
func whatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
