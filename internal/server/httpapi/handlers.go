package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink/internal/common"
	"github.com/campuslink/campuslink/internal/server/models"
	"github.com/campuslink/campuslink/internal/server/users"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	PhoneNo  string `json:"phoneno" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Gender   string `json:"gender" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public view of an account. The password hash never
// appears here.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PhoneNo   string    `json:"phoneno"`
	Email     string    `json:"email"`
	UserName  string    `json:"username"`
	Gender    string    `json:"gender"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		PhoneNo:   u.PhoneNo,
		Email:     u.Email,
		UserName:  u.UserName,
		Gender:    u.Gender,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// writeError is the single place where service errors become HTTP statuses.
// Messages stay user-safe: no hash, no key, no store details.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": common.ErrorDuplicateEmail.Error()})
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrorInvalidCredentials.Error()})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), &users.RegistrationRequest{
		Name:     req.Name,
		PhoneNo:  req.PhoneNo,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		s.logger.Warn(c.Request.Context(), "registration failed", "error", err.Error())
		writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)

	// the token also travels in a response header, which the browser client
	// reads; it must be listed in Access-Control-Expose-Headers to be visible
	c.Header("token", token)
	c.Header("Access-Control-Expose-Headers", "token")
	c.JSON(http.StatusCreated, gin.H{
		"user":  toResponse(user),
		"token": token,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toResponse(user),
	})
}

// logout is a no-op: tokens are stateless, there is no server-side session to
// destroy. The client simply discards its copy.
func (s *Server) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	user, err := s.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(user))
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(user))
}

func (s *Server) deleteUser(c *gin.Context) {
	callerID := c.GetString(ctxUserID)
	callerIsAdmin := c.GetBool(ctxIsAdmin)
	targetID := c.Param("id")

	if err := s.users.Delete(c.Request.Context(), callerID, callerIsAdmin, targetID); err != nil {
		writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user deleted", "user_id", targetID, "caller_id", callerID)

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	result := make([]userResponse, 0, len(list))
	for _, u := range list {
		result = append(result, toResponse(u))
	}

	c.JSON(http.StatusOK, gin.H{"users": result})
}
