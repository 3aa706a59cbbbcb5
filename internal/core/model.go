package core

import (
	"fmt"
	"net/mail"
	"strings"
)

// DefaultBusinessSpecialization is used when a lead does not name one.
const DefaultBusinessSpecialization = "Life insurance, Tax Preparation, Credit Repair, and Business Startup services for Women"

// Request bounds
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinVariants    = 1
	MaxVariants    = 10
)

// Lead is the prospect an outreach email is drafted for
type Lead struct {
	FirstName              string `json:"first_name" binding:"required"`
	LastName               string `json:"last_name,omitempty"`
	Company                string `json:"company,omitempty"`
	Title                  string `json:"title,omitempty"`
	Zip                    string `json:"zip,omitempty"`
	Insight                string `json:"insight,omitempty"`
	BusinessSpecialization string `json:"business_specialization,omitempty"`
}

// GenerationRequest asks for one or more email variants for a lead.
// Optional fields are pointers so that an explicit zero can be told apart from an absent value.
type GenerationRequest struct {
	Lead        Lead     `json:"lead"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	Variants    *int     `json:"variants,omitempty"`
}

// Validate checks the request bounds
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Lead.FirstName) == "" {
		return fmt.Errorf("%w: lead.first_name is required", ErrInvalidRequest)
	}
	if r.Temperature != nil && (*r.Temperature < MinTemperature || *r.Temperature > MaxTemperature) {
		return fmt.Errorf("%w: temperature must be between %.1f and %.1f", ErrInvalidRequest, MinTemperature, MaxTemperature)
	}
	if r.Variants != nil && (*r.Variants < MinVariants || *r.Variants > MaxVariants) {
		return fmt.Errorf("%w: variants must be between %d and %d", ErrInvalidRequest, MinVariants, MaxVariants)
	}
	if r.MaxTokens != nil && *r.MaxTokens < 1 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidRequest)
	}
	return nil
}

// Variant is one candidate email produced by a single model call
type Variant struct {
	ID         string   `json:"id"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	CTAText    *string  `json:"cta_text"`
	Confidence *float64 `json:"confidence"`
	UsedTokens []string `json:"used_tokens"`
	RawText    string   `json:"raw_text"`
}

// GenerationResult holds the variants of one request in temperature-index order
type GenerationResult struct {
	Variants []*Variant `json:"variants"`
	RawText  *string    `json:"raw_text"`
}

// Role of a prompt message
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of the prompt sent to the model
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries the parameters of a single model call
type CompletionRequest struct {
	Messages    []Message
	Model       string
	Temperature float64
	MaxTokens   int
}

// SendRequest asks for a drafted email to be delivered
type SendRequest struct {
	RecipientEmail  string                 `json:"recipient_email"`
	Subject         string                 `json:"subject"`
	Body            string                 `json:"body"`
	PlainText       string                 `json:"plain_text,omitempty"`
	ReplyTo         string                 `json:"reply_to,omitempty"`
	Lead            *Lead                  `json:"lead,omitempty"`
	ConsentSnapshot map[string]interface{} `json:"consent_snapshot,omitempty"`
}

// Validate checks that the mandatory fields are present
func (r *SendRequest) Validate() error {
	if strings.TrimSpace(r.RecipientEmail) == "" || strings.TrimSpace(r.Subject) == "" || strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("%w: recipient_email, subject and body are required", ErrInvalidRequest)
	}
	if !isBareAddress(r.RecipientEmail) {
		return fmt.Errorf("%w: recipient_email is not a valid email address", ErrInvalidRequest)
	}
	if r.ReplyTo != "" && !isBareAddress(r.ReplyTo) {
		return fmt.Errorf("%w: reply_to is not a valid email address", ErrInvalidRequest)
	}
	return nil
}

// isBareAddress reports whether s is a single addr-spec with no display name
func isBareAddress(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// OutboundEmail is the message handed to a delivery gateway
type OutboundEmail struct {
	From     string
	FromName string
	To       string
	ReplyTo  string
	Subject  string
	HTML     string
	Text     string
}

// SendResult reports a successful delivery
type SendResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
}
