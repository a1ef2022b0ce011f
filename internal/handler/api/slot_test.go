//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"parkshare/internal/domain/user"
	"parkshare/internal/handler/api"
	resdto "parkshare/internal/handler/dto/response"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"
	"parkshare/tests/common/builder"
	"parkshare/tests/common/httptest"
	commandsmock "parkshare/tests/mock/commands"
	queriesmock "parkshare/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSlotCommands
	mockQueries  *queriesmock.MockSlotQueries
	handler      *api.SlotHandler
	actor        shared.Actor
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockQueries)

	s.actor = shared.Actor{
		UserID:      uuid.New(),
		CommunityID: uuid.New(),
		Role:        user.RoleMember,
	}

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		middleware.SetActor(c, s.actor)
		c.Next()
	}

	slots := s.router.Group("/slots", authMiddleware)
	slots.POST("", s.handler.CreateSlot)
	slots.GET("", s.handler.ListSlots)
	slots.GET("/:id", s.handler.GetSlot)
	slots.PATCH("/:id", s.handler.UpdateSlot)
	slots.DELETE("/:id", s.handler.DeleteSlot)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func (s *SlotHandlerTestSuite) TestCreateSlot() {
	url := "/slots"

	reqBody := map[string]any{
		"number":        "A-001",
		"slot_type":     "covered",
		"rate_cents_hr": 10000,
	}

	s.Run("success: returns 201 Created with the registered slot", func() {
		view := builder.NewSlotBuilder().WithOwner(s.actor.UserID).BuildView()
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.actor, commands.CreateSlotParams{
				Number:    "A-001",
				SlotType:  "covered",
				RateCents: 10000,
			}).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("A-001", response.Number)
		s.Equal("covered", response.SlotType)
		s.NotNil(response.OwnerID)
	})

	s.Run("error: 409 Conflict for a duplicate slot number", func() {
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.actor, gomock.Any()).
			Return(nil, commands.ErrConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot number already in use")
	})

	s.Run("error: 403 Forbidden when a member registers a shared slot", func() {
		body := map[string]any{
			"number":        "V-001",
			"slot_type":     "visitor",
			"rate_cents_hr": 5000,
			"shared":        true,
		}
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.actor, gomock.Any()).
			Return(nil, commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("error: 400 Bad Request for an unknown slot type", func() {
		body := map[string]any{
			"number":        "A-002",
			"slot_type":     "underwater",
			"rate_cents_hr": 10000,
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 401 Unauthorized without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})
}

func (s *SlotHandlerTestSuite) TestListSlots() {
	url := "/slots"

	s.Run("success: returns active slots", func() {
		views := []*queries.SlotView{
			builder.NewSlotBuilder().WithNumber("A-001").BuildView(),
			builder.NewSlotBuilder().WithNumber("A-002").Shared().BuildView(),
		}
		s.mockQueries.EXPECT().
			ListActive(gomock.Any(), s.actor.CommunityID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("A-001", response[0].Number)
		s.Nil(response[1].OwnerID)
	})

	s.Run("error: 500 when the read store fails", func() {
		s.mockQueries.EXPECT().
			ListActive(gomock.Any(), s.actor.CommunityID).
			Return(nil, errors.New("connection lost")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "")
	})
}

func (s *SlotHandlerTestSuite) TestGetSlot() {
	slotID := uuid.New()

	s.Run("success: returns the slot", func() {
		view := builder.NewSlotBuilder().BuildView()
		view.ID = slotID
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.actor.CommunityID, slotID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/"+slotID.String(), nil, "token")

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(slotID, response.ID)
	})

	s.Run("error: 400 Bad Request for a malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid slot ID format")
	})

	s.Run("error: 404 Not Found for a missing slot", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.actor.CommunityID, slotID).
			Return(nil, errors.New("no rows")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/"+slotID.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

func (s *SlotHandlerTestSuite) TestUpdateSlot() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String()

	reqBody := map[string]any{
		"rate_cents_hr": 15000,
	}

	s.Run("success: returns the updated slot", func() {
		view := builder.NewSlotBuilder().WithRateCentsPerHour(15000).BuildView()
		view.ID = slotID
		s.mockCommands.EXPECT().
			Update(gomock.Any(), s.actor, slotID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ shared.Actor, _ uuid.UUID, p commands.UpdateSlotParams) (*queries.SlotView, error) {
				s.Require().NotNil(p.RateCents)
				s.Equal(int64(15000), *p.RateCents)
				s.Nil(p.Number)
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "token")

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(15000), response.RateCents)
	})

	s.Run("error: 403 Forbidden when the caller does not own the slot", func() {
		s.mockCommands.EXPECT().
			Update(gomock.Any(), s.actor, slotID, gomock.Any()).
			Return(nil, commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	s.Run("error: 404 Not Found for a missing slot", func() {
		s.mockCommands.EXPECT().
			Update(gomock.Any(), s.actor, slotID, gomock.Any()).
			Return(nil, commands.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

func (s *SlotHandlerTestSuite) TestDeleteSlot() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			SoftDelete(gomock.Any(), s.actor, slotID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 409 Conflict while bookings block the slot", func() {
		s.mockCommands.EXPECT().
			SoftDelete(gomock.Any(), s.actor, slotID).
			Return(commands.ErrConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})

	s.Run("error: 403 Forbidden for a slot owned by someone else", func() {
		s.mockCommands.EXPECT().
			SoftDelete(gomock.Any(), s.actor, slotID).
			Return(commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}
