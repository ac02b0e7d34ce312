package animal

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
	animalService "github.com/jwalitptl/herd-api/internal/service/animal"
	"github.com/jwalitptl/herd-api/pkg/errors"
	"github.com/jwalitptl/herd-api/pkg/httputil"
)

type Handler struct {
	service *animalService.Service
}

func NewHandler(service *animalService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	animals := rg.Group("/farms/:farm_id/animals")
	{
		animals.POST("", h.CreateAnimal)
		animals.GET("", h.ListAnimals)
		animals.GET("/:id", h.GetAnimal)
		animals.PUT("/:id", h.UpdateAnimal)
		animals.DELETE("/:id", h.DeleteAnimal)
	}
}

type animalRequest struct {
	Name           string     `json:"name"`
	EID            string     `json:"eid"`
	OfficialNumber string     `json:"official_number"`
	Sex            string     `json:"sex"`
	Breed          string     `json:"breed"`
	BirthDate      *time.Time `json:"birth_date"`
	LotID          *uuid.UUID `json:"lot_id"`
	Status         string     `json:"status"`
}

func (req *animalRequest) apply(animal *model.Animal) {
	animal.Name = req.Name
	animal.EID = req.EID
	animal.OfficialNumber = req.OfficialNumber
	animal.Sex = req.Sex
	animal.Breed = req.Breed
	animal.BirthDate = req.BirthDate
	animal.LotID = req.LotID
	if req.Status != "" {
		animal.Status = model.AnimalStatus(req.Status)
	}
}

func (h *Handler) CreateAnimal(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid farm ID", err))
		return
	}

	var req animalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	animal := &model.Animal{FarmID: farmID}
	req.apply(animal)

	if err := h.service.CreateAnimal(c.Request.Context(), animal); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httputil.Response{Success: true, Data: animal})
}

func (h *Handler) GetAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid animal ID", err))
		return
	}

	animal, err := h.service.GetAnimal(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, animal)
}

func (h *Handler) UpdateAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid animal ID", err))
		return
	}

	animal, err := h.service.GetAnimal(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req animalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	req.apply(animal)

	if err := h.service.UpdateAnimal(c.Request.Context(), animal); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, animal)
}

func (h *Handler) DeleteAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid animal ID", err))
		return
	}

	if err := h.service.DeleteAnimal(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) ListAnimals(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("farm_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid farm ID", err))
		return
	}

	var filters model.AnimalFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}
	if id := c.Query("lot_id"); id != "" {
		lotID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid lot ID", err))
			return
		}
		filters.LotID = &lotID
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}

	animals, total, err := h.service.ListAnimals(c.Request.Context(), farmID, &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, animals, filters.Page, filters.PageSize, total)
}
