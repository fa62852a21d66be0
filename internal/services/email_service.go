package services

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
)

// EmailConfig holds the ElasticEmail credentials and the public base URL
// verification links point at.
type EmailConfig struct {
	APIKey   string
	Endpoint string // defaults to the ElasticEmail v2 send endpoint
	BaseURL  string
	From     string
	FromName string
}

// EmailService sends transactional mail through the ElasticEmail HTTP API.
// Callers treat failures as best-effort: log, never propagate to the user.
type EmailService struct {
	cfg    EmailConfig
	client *http.Client
}

func NewEmailService(cfg EmailConfig) *EmailService {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.elasticemail.com/v2/email/send"
	}
	if cfg.From == "" {
		cfg.From = "no-reply@ecomove.com"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Ecomove"
	}
	return &EmailService{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

// SendVerificationEmail mails the account-verification link for token.
func (s *EmailService) SendVerificationEmail(to, token string) error {
	verificationURL := s.cfg.BaseURL + "/api/auth/verify/" + token

	params := url.Values{}
	params.Set("apikey", s.cfg.APIKey)
	params.Set("subject", "Verify your email")
	params.Set("from", s.cfg.From)
	params.Set("fromName", s.cfg.FromName)
	params.Set("to", to)
	params.Set("isTransactional", "true")
	params.Set("bodyHtml",
		"<h2>Verify your email</h2>"+
			"<p>Click the link below to verify your email:</p>"+
			`<a href="`+verificationURL+`">`+verificationURL+`</a>`)

	resp, err := s.client.Post(s.cfg.Endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(params.Encode()))
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "email provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperr.Newf(apperr.Upstream, "email provider returned %d", resp.StatusCode)
	}
	return nil
}
