package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/quicky-ai/quicky-core/internal/middleware"
	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
)

const msgInvalidEmail = "A valid email is required"

// TokenIssuer signs session tokens for newly created users.
type TokenIssuer interface {
	Sign(userID string) (string, error)
}

type Handler struct {
	svc    *Service
	tokens TokenIssuer
}

func NewHandler(svc *Service, tokens TokenIssuer) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/users")
	g.POST("", h.create)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.DELETE("/me", h.deleteMe)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, apperr.Wrap(apperr.KindValidation, apperr.CodeInvalidField, msgInvalidEmail, err))
		return
	}
	input := emailInput{Email: normalizeEmail(dto.Email)}
	if err := binding.Validator.ValidateStruct(&input); err != nil {
		response.Error(c, apperr.Wrap(apperr.KindValidation, apperr.CodeInvalidField, msgInvalidEmail, err))
		return
	}
	u, err := h.svc.Create(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			response.Conflict(c, "Email already registered")
			return
		}
		response.InternalError(c, err)
		return
	}
	token, err := h.tokens.Sign(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, createResponse{Success: true, User: toResponse(u), Token: token})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "User not found")
		return
	}
	response.OK(c, gin.H{"success": true, "user": toResponse(u)})
}

func (h *Handler) deleteMe(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		if errors.Is(err, errUserNotFound) {
			response.NotFoundMsg(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
