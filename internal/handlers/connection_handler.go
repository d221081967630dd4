package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/repositories"
	"github.com/nexscholar/backend/pkg/logger"
)

// ConnectionHandler handles HTTP requests related to scholar connections
type ConnectionHandler struct {
	connectionRepository repositories.ConnectionRepository
	userRepository       repositories.UserRepository
	dispatcher           *notify.Dispatcher
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionRepo repositories.ConnectionRepository, userRepo repositories.UserRepository, dispatcher *notify.Dispatcher) *ConnectionHandler {
	return &ConnectionHandler{
		connectionRepository: connectionRepo,
		userRepository:       userRepo,
		dispatcher:           dispatcher,
	}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections/request", h.SendConnectionRequest)
	g.GET("/connections/requests/pending", h.GetPendingConnectionRequests)
	g.PUT("/connections/request/:id/status", h.UpdateConnectionRequestStatus)
	g.GET("/connections", h.GetConnections)
}

// SendConnectionRequest handles sending a connection request
func (h *ConnectionHandler) SendConnectionRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if receiver exists
	receiver, err := h.userRepository.GetUserByID(req.ReceiverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID == req.ReceiverID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a connection request to yourself")
	}

	connectionRequest := &models.ConnectionRequest{
		SenderID:   currentUserID,
		ReceiverID: req.ReceiverID,
		Status:     "pending", // Default status
	}

	if err := h.connectionRepository.SendConnectionRequest(connectionRequest); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Best-effort notification
	requester, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		logger.L.WithError(err).Warn("could not load requester for connection notification")
	}
	h.dispatcher.Send(notify.NewConnectionRequest(requester), receiver)

	return c.JSON(http.StatusCreated, connectionRequest)
}

// GetPendingConnectionRequests retrieves pending connection requests for the authenticated user
func (h *ConnectionHandler) GetPendingConnectionRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.connectionRepository.GetUserPendingConnectionRequests(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// UpdateConnectionRequestStatus updates the status of a connection request (accept/reject)
func (h *ConnectionHandler) UpdateConnectionRequestStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	connectionRequest, err := h.connectionRepository.GetConnectionRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Connection request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Ensure the authenticated user is the receiver of the request
	if connectionRequest.ReceiverID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this connection request")
	}

	if err := h.connectionRepository.UpdateConnectionRequestStatus(uint(requestID), req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	connectionRequest.Status = req.Status

	if req.Status == "accepted" {
		sender, err := h.userRepository.GetUserByID(connectionRequest.SenderID)
		if err != nil {
			logger.L.WithError(err).Warn("could not load sender for acceptance notification")
		} else {
			accepter, err := h.userRepository.GetUserByID(currentUserID)
			if err != nil {
				logger.L.WithError(err).Warn("could not load accepter for acceptance notification")
			}
			h.dispatcher.Send(notify.NewConnectionAccepted(accepter), sender)
		}
	}

	return c.JSON(http.StatusOK, connectionRequest)
}

// GetConnections retrieves the accepted connections of the authenticated user
func (h *ConnectionHandler) GetConnections(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	connections, err := h.connectionRepository.GetUserConnections(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, connections)
}
