package api

import (
	"errors"
	"net/http"

	reqdto "parkshare/internal/handler/dto/request"
	resdto "parkshare/internal/handler/dto/response"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

// @Summary Register parking slot
// @Description Register a new parking slot in the caller's community
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot request"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.slotCommands.Create(c.Request.Context(), actor, commands.CreateSlotParams{
		Number:    req.Number,
		SlotType:  req.SlotType,
		RateCents: req.RateCents,
		Shared:    req.Shared,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
		case errors.Is(err, commands.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot number already in use",
			})
		case errors.Is(err, commands.ErrPolicyViolation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid slot data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSlotView(view))
}

// @Summary List parking slots
// @Description List active parking slots in the caller's community
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.SlotResponse
// @Failure 401 {object} map[string]string
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.slotQueries.ListActive(c.Request.Context(), actor.CommunityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SlotResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromSlotView(view)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get parking slot
// @Description Get a parking slot by ID
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	view, err := h.slotQueries.GetByID(c.Request.Context(), actor.CommunityID, slotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Slot not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Update parking slot
// @Description Update slot attributes; owner or admin only
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.UpdateSlotRequest true "Slot patch"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{id} [patch]
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	var req reqdto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.slotCommands.Update(c.Request.Context(), actor, slotID, commands.UpdateSlotParams{
		Number:    req.Number,
		SlotType:  req.SlotType,
		RateCents: req.RateCents,
	})
	if err != nil {
		h.writeSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Delete parking slot
// @Description Soft-delete a slot; refused while bookings block it
// @Tags slots
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{id} [delete]
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	if err := h.slotCommands.SoftDelete(c.Request.Context(), actor, slotID); err != nil {
		h.writeSlotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) writeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Slot not found",
		})
	case errors.Is(err, commands.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	case errors.Is(err, commands.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot conflicts with existing data",
		})
	case errors.Is(err, commands.ErrPolicyViolation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
