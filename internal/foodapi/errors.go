package foodapi

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies failures the way the UI reports them.
type Kind string

const (
	// KindValidation blocks a request before it is sent.
	KindValidation Kind = "validation"
	// KindTransport covers unreachable servers, non-OK statuses and undecodable bodies.
	KindTransport Kind = "transport"
	// KindApplication is a well-formed reply with success set to false.
	KindApplication Kind = "application"
)

// Error carries the kind, the failed operation and a message fit for display.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a client-side validation error.
func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func transport(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Message: "Error connecting to server", Err: err}
}

func application(op, msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindApplication, Op: op, Message: msg}
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong"
}

// StatusCode maps err to the status the BFF answers with. Failures of the
// remote API are reported as a bad gateway.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindTransport, KindApplication:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
