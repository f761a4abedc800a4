package validator

import (
	"errors"
	"testing"

	"eventbook/pkg/logger"
	"eventbook/pkg/model"
)

func TestValidate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	tests := []struct {
		name        string
		booking     *model.Booking
		wantField   string
		wantMessage string
	}{
		{
			name:    "valid",
			booking: &model.Booking{EventID: "65f1c0a2e4b0a1b2c3d4e5f6", Email: "jane@example.com"},
		},
		{
			name:        "missing event",
			booking:     &model.Booking{Email: "jane@example.com"},
			wantField:   "eventId",
			wantMessage: "Event ID is required",
		},
		{
			name:        "malformed event id",
			booking:     &model.Booking{EventID: "react-summit", Email: "jane@example.com"},
			wantField:   "eventId",
			wantMessage: "Event ID must be a valid ObjectID",
		},
		{
			name:        "missing email",
			booking:     &model.Booking{EventID: "65f1c0a2e4b0a1b2c3d4e5f6"},
			wantField:   "email",
			wantMessage: "Email is required",
		},
		{
			name:        "email without tld",
			booking:     &model.Booking{EventID: "65f1c0a2e4b0a1b2c3d4e5f6", Email: "jane@example"},
			wantField:   "email",
			wantMessage: "Please provide a valid email address",
		},
		{
			name:        "email with space",
			booking:     &model.Booking{EventID: "65f1c0a2e4b0a1b2c3d4e5f6", Email: "jane doe@example.com"},
			wantField:   "email",
			wantMessage: "Please provide a valid email address",
		},
		{
			name:        "first failure wins",
			booking:     &model.Booking{},
			wantField:   "eventId",
			wantMessage: "Event ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.booking)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField || verr.Message != tt.wantMessage {
				t.Errorf("got %s/%q, want %s/%q", verr.Field, verr.Message, tt.wantField, tt.wantMessage)
			}
		})
	}
}
