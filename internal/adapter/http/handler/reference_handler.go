package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/ZeyadW/Apartment-Finder/internal/apartment/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DeveloperHandler struct {
	developers *usecase.DeveloperUsecase
	logger     *zap.Logger
}

func NewDeveloperHandler(developers *usecase.DeveloperUsecase, logger *zap.Logger) *DeveloperHandler {
	return &DeveloperHandler{developers: developers, logger: logger.Named("DeveloperHandler")}
}

func (h *DeveloperHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	developers, err := h.developers.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, developers, len(developers))
}

func (h *DeveloperHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	developer, err := h.developers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, developer)
}

func (h *DeveloperHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var developer domain.Developer
	if err := json.NewDecoder(r.Body).Decode(&developer); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.developers.Create(r.Context(), &developer)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

type updateDeveloperRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
}

func (h *DeveloperHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateDeveloperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	developer, err := h.developers.Update(r.Context(), chi.URLParam(r, "id"), &domain.DeveloperUpdate{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, developer)
}

func (h *DeveloperHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.developers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "developer deleted")
}

type CompoundHandler struct {
	compounds *usecase.CompoundUsecase
	logger    *zap.Logger
}

func NewCompoundHandler(compounds *usecase.CompoundUsecase, logger *zap.Logger) *CompoundHandler {
	return &CompoundHandler{compounds: compounds, logger: logger.Named("CompoundHandler")}
}

func (h *CompoundHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	compounds, err := h.compounds.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, compounds, len(compounds))
}

func (h *CompoundHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	compound, err := h.compounds.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, compound)
}

func (h *CompoundHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var compound domain.Compound
	if err := json.NewDecoder(r.Body).Decode(&compound); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.compounds.Create(r.Context(), &compound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

type updateCompoundRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (h *CompoundHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCompoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	compound, err := h.compounds.Update(r.Context(), chi.URLParam(r, "id"), &domain.CompoundUpdate{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, compound)
}

func (h *CompoundHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.compounds.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "compound deleted")
}

type AmenityHandler struct {
	amenities *usecase.AmenityUsecase
	logger    *zap.Logger
}

func NewAmenityHandler(amenities *usecase.AmenityUsecase, logger *zap.Logger) *AmenityHandler {
	return &AmenityHandler{amenities: amenities, logger: logger.Named("AmenityHandler")}
}

func (h *AmenityHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.amenities.GetAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeList(w, amenities, len(amenities))
}

func (h *AmenityHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	amenity, err := h.amenities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, amenity)
}

func (h *AmenityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var amenity domain.Amenity
	if err := json.NewDecoder(r.Body).Decode(&amenity); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.amenities.Create(r.Context(), &amenity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

type updateAmenityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *AmenityHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateAmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amenity, err := h.amenities.Update(r.Context(), chi.URLParam(r, "id"), &domain.AmenityUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, amenity)
}

func (h *AmenityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.amenities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "amenity deleted")
}
