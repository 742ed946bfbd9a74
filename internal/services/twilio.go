package services

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/lalushbella/p2prental-backend/internal/config"
	"github.com/lalushbella/p2prental-backend/internal/models"
)

// TwilioSMSSender sends OTP SMS messages via the Twilio REST API.
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSMSSender creates an SMS sender from config.
func NewTwilioSMSSender(cfg *config.Config) (*TwilioSMSSender, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioSMSSender{client: client, from: cfg.TwilioFrom}, nil
}

// SendOTPSMS sends the single-line OTP message for the given action kind.
func (t *TwilioSMSSender) SendOTPSMS(mobile, code string, action models.OTPAction) error {
	verb := "register for"
	if action == models.OTPActionLogin {
		verb = "login to"
	}
	body := fmt.Sprintf("Your OTP to %s P2P Rental is: %s. Valid for 10 minutes.", verb, code)

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(mobile)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}

	if resp.Sid != nil {
		log.Printf("OTP SMS sent to %s, SID: %s", mobile, *resp.Sid)
	}
	return nil
}
