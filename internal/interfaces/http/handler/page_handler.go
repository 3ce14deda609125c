package handler

import (
	"bytes"
	"net/http"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/application/usecase"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// PageHandler отдает страницу целиком и фрагмент меню
type PageHandler struct {
	getHomePageUC *usecase.GetHomePageUseCase
	pages         port.PageRenderer
	fragments     port.FragmentRenderer
	logger        *logger.Logger
}

// NewPageHandler создает новый handler
func NewPageHandler(
	getHomePageUC *usecase.GetHomePageUseCase,
	pages port.PageRenderer,
	fragments port.FragmentRenderer,
	logger *logger.Logger,
) *PageHandler {
	return &PageHandler{
		getHomePageUC: getHomePageUC,
		pages:         pages,
		fragments:     fragments,
		logger:        logger,
	}
}

// ShowHome отображает главную страницу. Без ?category показывается заставка.
func (h *PageHandler) ShowHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	state := entity.NewViewState()
	if query.Has("category") {
		state = entity.ReconstructViewState(false, valueobject.ParseMenuCategory(query.Get("category")), false)
	}
	if query.Get("menu") == "open" {
		state.ToggleMobileMenu()
	}

	h.render(w, r, state, http.StatusOK, nil)
}

// ShowCategory отображает страницу с выбранной вкладкой (/category/{category}/)
func (h *PageHandler) ShowCategory(w http.ResponseWriter, r *http.Request) {
	category := valueobject.ParseMenuCategory(r.PathValue("category"))
	state := entity.ReconstructViewState(false, category, r.URL.Query().Get("menu") == "open")

	h.render(w, r, state, http.StatusOK, nil)
}

// MenuFragment отдает вкладки и сетку карточек для ?category
func (h *PageHandler) MenuFragment(w http.ResponseWriter, r *http.Request) {
	category := valueobject.ParseMenuCategory(r.URL.Query().Get("category"))
	state := entity.ReconstructViewState(false, category, false)

	page, err := h.getHomePageUC.Execute(r.Context(), state)
	if err != nil {
		h.logger.Error("Failed to build menu fragment", err, "category", category.String())
		http.Error(w, "Failed to load menu", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.fragments.RenderMenuSection(r.Context(), &buf, page); err != nil {
		h.logger.Error("Failed to render menu fragment", err)
		http.Error(w, "Failed to render menu", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// render собирает страницу в буфер, чтобы ошибка шаблона не оставила полуответ
func (h *PageHandler) render(
	w http.ResponseWriter,
	r *http.Request,
	state *entity.ViewState,
	status int,
	decorate func(*dto.HomePageDTO),
) {
	page, err := h.getHomePageUC.Execute(r.Context(), state)
	if err != nil {
		h.logger.Error("Failed to build home page", err)
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}
	if decorate != nil {
		decorate(page)
	}

	var buf bytes.Buffer
	if err := h.pages.RenderHomePage(r.Context(), &buf, page); err != nil {
		h.logger.Error("Failed to render home page", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
