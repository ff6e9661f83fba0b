package publishhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pmrelay/internal/relay"
)

type Handler struct {
	relaySrv *relay.Server
}

func New(relaySrv *relay.Server) *Handler { return &Handler{relaySrv: relaySrv} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/publish", h.publish)
}

// @Summary		Publish an update trigger
// @Description	Lets the web backend fan an update event out to a room without holding a socket open.
// @Tags			Relay
// @Param			body	body	PublishBody	true	"Trigger payload"
// @Success		202
// @Failure		400	{object}	ErrorResponse
// @Failure		401	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/publish [post]
func (h *Handler) publish(ginCtx *gin.Context) {
	var body PublishBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	err := h.relaySrv.Publish(body.Channel, body.Event, body.Room, body.Secret, body.Message)
	switch {
	case errors.Is(err, relay.ErrNotAuthorized):
		ginCtx.JSON(http.StatusUnauthorized, &ErrorResponse{Error: err.Error()})
	case errors.Is(err, relay.ErrUnknownChannel), errors.Is(err, relay.ErrUnknownEvent):
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: err.Error()})
	case err != nil:
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
	default:
		ginCtx.Status(http.StatusAccepted)
	}
}
