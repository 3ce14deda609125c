package dto

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinGuests = 1
	MaxGuests = 7

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// MaxNotesLength ограничивает пожелания в символах, как maxlength у textarea
	MaxNotesLength = 2000
)

var ErrInvalidReservation = errors.New("invalid reservation")

// ReservationRequest содержит поля формы бронирования
type ReservationRequest struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Guests    int    `json:"guests"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes,omitempty"`
}

// ReservationAckDTO is the neutral acknowledgement shown after a hand-off.
type ReservationAckDTO struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Guests    string `json:"guests"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// ReservationFromForm читает значения формы. Ошибки разбора попадают в Validate.
func ReservationFromForm(form url.Values) *ReservationRequest {
	guests, err := strconv.Atoi(strings.TrimSpace(form.Get("guests")))
	if err != nil {
		guests = 0
	}
	return &ReservationRequest{
		Name:   strings.TrimSpace(form.Get("name")),
		Email:  strings.TrimSpace(form.Get("email")),
		Phone:  strings.TrimSpace(form.Get("phone")),
		Guests: guests,
		Date:   strings.TrimSpace(form.Get("date")),
		Time:   strings.TrimSpace(form.Get("time")),
		Notes:  strings.TrimSpace(form.Get("notes")),
	}
}

// Validate applies the same constraints the form inputs declare:
// required fields, email format, guest range, date and time formats.
func (r *ReservationRequest) Validate() error {
	problems := make([]string, 0)

	if r.Name == "" {
		problems = append(problems, "name is required")
	}
	if r.Email == "" {
		problems = append(problems, "email is required")
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		problems = append(problems, "email is invalid")
	}
	if r.Phone == "" {
		problems = append(problems, "phone is required")
	}
	if r.Guests < MinGuests || r.Guests > MaxGuests {
		problems = append(problems, fmt.Sprintf("guests must be between %d and %d", MinGuests, MaxGuests))
	}
	if r.Date == "" {
		problems = append(problems, "date is required")
	} else if _, err := time.Parse(DateLayout, r.Date); err != nil {
		problems = append(problems, "date is invalid")
	}
	if r.Time == "" {
		problems = append(problems, "time is required")
	} else if _, err := time.Parse(TimeLayout, r.Time); err != nil {
		problems = append(problems, "time is invalid")
	}
	if utf8.RuneCountInString(r.Notes) > MaxNotesLength {
		problems = append(problems, "notes are too long")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidReservation, strings.Join(problems, "; "))
	}
	return nil
}

// GuestLabel форматирует количество гостей как в выпадающем списке
func GuestLabel(n int) string {
	switch {
	case n == 1:
		return "1 person"
	case n >= MaxGuests:
		return fmt.Sprintf("%d+", MaxGuests)
	default:
		return fmt.Sprintf("%d people", n)
	}
}

// NewReservationAck строит подтверждение передачи заявки
func NewReservationAck(r *ReservationRequest) *ReservationAckDTO {
	return &ReservationAckDTO{
		Reference: r.Reference,
		Name:      r.Name,
		Guests:    GuestLabel(r.Guests),
		Date:      r.Date,
		Time:      r.Time,
	}
}
