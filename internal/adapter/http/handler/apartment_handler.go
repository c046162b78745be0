package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZeyadW/Apartment-Finder/internal/adapter/http/middleware"
	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/apartment/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ApartmentHandler struct {
	apartments *usecase.ApartmentUsecase
	favorites  *usecase.FavoriteUsecase
	logger     *zap.Logger
}

func NewApartmentHandler(apartments *usecase.ApartmentUsecase, favorites *usecase.FavoriteUsecase, logger *zap.Logger) *ApartmentHandler {
	return &ApartmentHandler{
		apartments: apartments,
		favorites:  favorites,
		logger:     logger.Named("ApartmentHandler"),
	}
}

// HandleSearch is the public listing search. Anonymous and non-admin callers
// only ever see available apartments.
func (h *ApartmentHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p := middleware.PrincipalFromContext(r.Context())
	apartments, err := h.apartments.Search(r.Context(), filter, p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}

// HandleSearchAdmin runs the same filters without the availability guard.
func (h *ApartmentHandler) HandleSearchAdmin(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p := middleware.PrincipalFromContext(r.Context())
	apartments, err := h.apartments.SearchAdmin(r.Context(), filter, p)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}

func (h *ApartmentHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	apartment, err := h.apartments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, apartment)
}

func (h *ApartmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateApartmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := middleware.PrincipalFromContext(r.Context())
	apartment, err := h.apartments.Create(r.Context(), &input, p)
	if err != nil {
		if usecase.IsReferenceError(err) {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, apartment)
}

type updateApartmentRequest struct {
	UnitName    *string             `json:"unitName"`
	UnitNumber  *string             `json:"unitNumber"`
	Project     *string             `json:"project"`
	Address     *string             `json:"address"`
	City        *string             `json:"city"`
	State       *string             `json:"state"`
	Price       *float64            `json:"price"`
	ListingType *domain.ListingType `json:"listingType"`
	Bedrooms    *int                `json:"bedrooms"`
	Bathrooms   *int                `json:"bathrooms"`
	SquareFeet  *float64            `json:"squareFeet"`
	Description *string             `json:"description"`
	AmenityIDs  *[]string           `json:"amenities"`
	Images      *[]string           `json:"images"`
	IsAvailable *bool               `json:"isAvailable"`
	DeveloperID *string             `json:"developer"`
	CompoundID  *string             `json:"compound"`
}

func (req *updateApartmentRequest) toDomain() *domain.ApartmentUpdate {
	return &domain.ApartmentUpdate{
		UnitName:    req.UnitName,
		UnitNumber:  req.UnitNumber,
		Project:     req.Project,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Price:       req.Price,
		ListingType: req.ListingType,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SquareFeet:  req.SquareFeet,
		Description: req.Description,
		AmenityIDs:  req.AmenityIDs,
		Images:      req.Images,
		IsAvailable: req.IsAvailable,
		DeveloperID: req.DeveloperID,
		CompoundID:  req.CompoundID,
	}
}

func (h *ApartmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := middleware.PrincipalFromContext(r.Context())
	apartment, err := h.apartments.Update(r.Context(), chi.URLParam(r, "id"), req.toDomain(), p)
	if err != nil {
		if usecase.IsReferenceError(err) {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, apartment)
}

func (h *ApartmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.apartments.Delete(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "apartment deleted")
}

func (h *ApartmentHandler) HandleMyListings(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	apartments, err := h.apartments.MyListings(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}

func (h *ApartmentHandler) HandleToggleAvailability(w http.ResponseWriter, r *http.Request) {
	apartment, err := h.apartments.ToggleAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, apartment)
}

func (h *ApartmentHandler) HandleByCompound(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.apartments.ByCompound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}

func (h *ApartmentHandler) HandleByDeveloper(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.apartments.ByDeveloper(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}

func (h *ApartmentHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	apartment, err := h.favorites.Add(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, apartment)
}

func (h *ApartmentHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	apartment, err := h.favorites.Remove(r.Context(), chi.URLParam(r, "id"), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, apartment)
}

func (h *ApartmentHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	apartments, err := h.favorites.List(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, apartments, len(apartments))
}
