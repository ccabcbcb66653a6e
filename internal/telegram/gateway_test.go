package telegram

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want delivery.FailureKind
	}{
		{"blocked", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, delivery.FailureRecipientUnreachable},
		{"rate limited", &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, delivery.FailureTransient},
		{"bad gateway", &tgbotapi.Error{Code: 502, Message: "Bad Gateway"}, delivery.FailureTransient},
		{"bad request", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, delivery.FailureOther},
		{"plain error", errors.New("connection refused"), delivery.FailureOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := delivery.KindOf(classify(tc.err))
			if got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassify_PreservesCause(t *testing.T) {
	cause := &tgbotapi.Error{Code: 403, Message: "Forbidden"}
	wrapped := classify(cause)

	var apiErr *tgbotapi.Error
	if !errors.As(wrapped, &apiErr) || apiErr.Code != 403 {
		t.Fatalf("classified error should unwrap to the Bot API error, got %v", wrapped)
	}
}
