package core

import (
	"errors"
	"fmt"
)

var (
	// ErrModelCall marks a transport failure or malformed provider response
	ErrModelCall = errors.New("model call failed")
	// ErrParse marks model output that is not valid JSON after fence stripping
	ErrParse = errors.New("could not parse JSON from model response")
	// ErrShape marks JSON that is neither an object nor a non-empty list of objects
	ErrShape = errors.New("unexpected model response type")
	// ErrValidation marks a variant missing its subject or body
	ErrValidation = errors.New("missing subject/body")
	// ErrNoVariants is returned when a generation finishes without any variant
	ErrNoVariants = errors.New("no valid variants produced")
	// ErrDelivery marks a failed hand-off to the email provider
	ErrDelivery = errors.New("email delivery failed")
	// ErrInvalidRequest marks a caller error
	ErrInvalidRequest = errors.New("invalid request")
)

// ModelCallError describes a failed call to a language-model provider
type ModelCallError struct {
	Provider   string
	StatusCode int
	Excerpt    string
	Err        error
}

func (e *ModelCallError) Error() string {
	msg := fmt.Sprintf("%s API error", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Excerpt != "" {
		msg = fmt.Sprintf("%s - %s", msg, e.Excerpt)
	}
	return msg
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// Is reports ModelCallError as ErrModelCall
func (e *ModelCallError) Is(target error) bool { return target == ErrModelCall }

// Variant processing stages
const (
	StageModel     = "model"
	StageNormalize = "normalize"
)

// VariantError names the variant and stage at which a generation failed
type VariantError struct {
	Index   int
	Stage   string
	Excerpt string
	Err     error
}

func (e *VariantError) Error() string {
	var msg string
	switch e.Stage {
	case StageModel:
		msg = fmt.Sprintf("model error on variant %d: %v", e.Index+1, e.Err)
	default:
		msg = fmt.Sprintf("invalid output for variant %d: %v", e.Index+1, e.Err)
	}
	if e.Excerpt != "" {
		msg = fmt.Sprintf("%s. Raw: %s", msg, e.Excerpt)
	}
	return msg
}

func (e *VariantError) Unwrap() error { return e.Err }

// DeliveryError describes a failed send through an email provider
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Is reports DeliveryError as ErrDelivery
func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
