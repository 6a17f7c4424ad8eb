package api

import (
	"net/http"

	"stayhub/internal/handler/httperr"
	"stayhub/internal/infra"
	"stayhub/internal/infra/geocode"
	"stayhub/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UnitHandler struct {
	unitRepo commands.UnitRepository
	geocoder *geocode.Cache
}

func NewUnitHandler(unitRepo commands.UnitRepository, geocoder *geocode.Cache) *UnitHandler {
	return &UnitHandler{
		unitRepo: unitRepo,
		geocoder: geocoder,
	}
}

// @Summary Get unit location
// @Description Resolve a unit's address to coordinates via the geocode cache
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /units/{id}/location [get]
func (h *UnitHandler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid unit ID format", nil)
		return
	}

	unit, err := h.unitRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeUnitNotFound, "Unit not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}
	if unit.Address == "" {
		httperr.AbortWithError(c, http.StatusNotFound,
			infra.WrapRepoErr("unit has no address", nil, infra.KindNotFound),
			httperr.CodeUnitNotFound, "Unit has no address on file", nil)
		return
	}

	coords, err := h.geocoder.Resolve(c.Request.Context(), unit.Address)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadGateway, err,
			httperr.CodeInternal, "Could not resolve unit address", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit_id":   unit.ID,
		"address":   unit.Address,
		"latitude":  coords.Latitude,
		"longitude": coords.Longitude,
	})
}
