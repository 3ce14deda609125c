package booking

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

func TestDiscard_LogsWithoutPersonalData(t *testing.T) {
	var buf bytes.Buffer
	d := NewDiscard(logger.NewWithWriter("info", &buf))

	err := d.RequestBooking(context.Background(), &dto.ReservationRequest{
		Reference: "ref-1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Guests:    3,
		Date:      "2026-11-02",
		Time:      "19:30",
	})
	if err != nil {
		t.Fatalf("RequestBooking() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "reference=ref-1") || !strings.Contains(out, "guests=3") {
		t.Fatalf("expected reference and guests in log, got %q", out)
	}
	if strings.Contains(out, "ada@example.com") {
		t.Fatalf("email must not be logged: %q", out)
	}
}
