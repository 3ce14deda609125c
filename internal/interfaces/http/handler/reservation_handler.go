package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/usecase"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

const maxReservationFormBytes = 16 << 10

// ReservationObserver учитывает исход заявок (метрики)
type ReservationObserver interface {
	ReservationHandled(outcome string)
}

// ReservationHandler принимает форму бронирования и передает ее во внешнюю систему
type ReservationHandler struct {
	submitReservationUC *usecase.SubmitReservationUseCase
	pages               *PageHandler
	observer            ReservationObserver
	logger              *logger.Logger
}

// NewReservationHandler создает новый handler; observer может быть nil
func NewReservationHandler(
	submitReservationUC *usecase.SubmitReservationUseCase,
	pages *PageHandler,
	observer ReservationObserver,
	logger *logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		submitReservationUC: submitReservationUC,
		pages:               pages,
		observer:            observer,
		logger:              logger,
	}
}

// Submit валидирует форму и перерисовывает страницу с подтверждением или ошибкой
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReservationFormBytes)
	if err := r.ParseForm(); err != nil {
		h.record("invalid")
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	request := dto.ReservationFromForm(r.PostForm)
	state := entity.ReconstructViewState(false, valueobject.CategoryAll, false)

	ack, err := h.submitReservationUC.Execute(r.Context(), request)
	switch {
	case errors.Is(err, dto.ErrInvalidReservation):
		h.record("invalid")
		h.pages.render(w, r, state, http.StatusUnprocessableEntity, func(page *dto.HomePageDTO) {
			page.FormError = "Please check your details: " + trimSentinel(err)
			page.Submitted = request
		})
		return

	case err != nil:
		h.record("failed")
		h.logger.Error("Failed to hand off reservation", err)
		h.pages.render(w, r, state, http.StatusServiceUnavailable, func(page *dto.HomePageDTO) {
			page.FormError = "We could not pass on your request right now. Please call us instead."
			page.Submitted = request
		})
		return
	}

	h.record("accepted")
	h.pages.render(w, r, state, http.StatusOK, func(page *dto.HomePageDTO) {
		page.Notice = fmt.Sprintf("Thank you, %s. Your request for %s on %s at %s has been passed on. Reference: %s.",
			ack.Name, ack.Guests, ack.Date, ack.Time, ack.Reference)
	})
}

func (h *ReservationHandler) record(outcome string) {
	if h.observer != nil {
		h.observer.ReservationHandled(outcome)
	}
}

// trimSentinel убирает префикс "invalid reservation: " из текста ошибки
func trimSentinel(err error) string {
	msg := err.Error()
	prefix := dto.ErrInvalidReservation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
