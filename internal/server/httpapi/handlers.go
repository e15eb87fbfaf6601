package httpapi

import (
	"errors"
	"math"
	"net/http"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/services"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type progressRequest struct {
	Subject string `json:"subject"`
	Score   *int   `json:"score"`
}

// POST /api/register
func (s *Server) register(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgInvalidBody})
	}

	id, err := s.users.Register(ctx, services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, common.ErrorValidation):
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgAllFieldsRequired})
	case errors.Is(err, common.ErrorAlreadyExists):
		return c.JSON(http.StatusConflict, resultBody{Message: msgAlreadyUsed})
	case err != nil:
		s.logger.Error(ctx, "registration failed", "error", err)
		return c.JSON(http.StatusInternalServerError, resultBody{Message: msgInternal})
	}

	s.logger.Info(ctx, "Registered", "user_id", id)
	return c.JSON(http.StatusOK, resultBody{Success: true, Message: msgRegistered})
}

// POST /api/login
func (s *Server) login(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgInvalidBody})
	}

	token, err := s.users.Login(ctx, sessionToken(c), req.Nickname, req.Password)
	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, resultBody{Message: msgBadCredentials})
	case err != nil:
		s.logger.Error(ctx, "login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, resultBody{Message: msgInternal})
	}

	c.SetCookie(s.sessionCookie(token, int(s.sessions.TTL().Seconds())))
	return c.JSON(http.StatusOK, resultBody{Success: true})
}

// GET|POST /api/logout always succeeds and always clears the cookie.
func (s *Server) logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := s.users.Logout(ctx, sessionToken(c)); err != nil {
		s.logger.Warn(ctx, "logout: session not removed", "error", err)
	}

	c.SetCookie(s.sessionCookie("", -1))
	return c.JSON(http.StatusOK, resultBody{Success: true})
}

// GET /api/check_session
func (s *Server) checkSession(c echo.Context) error {
	ctx := c.Request().Context()

	_, err := s.sessions.Current(ctx, sessionToken(c))
	if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		s.logger.Error(ctx, "session lookup failed", "error", err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"logged_in": err == nil})
}

// GET /api/data
func (s *Server) appData(c echo.Context) error {
	ctx := c.Request().Context()
	sess := currentSession(c)

	profile, err := s.users.Profile(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: msgUnauthorized})
		}
		s.logger.Error(ctx, "profile lookup failed", "user_id", sess.UserID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: msgInternal})
	}

	courses, err := s.catalog.ListCourseSummaries(ctx)
	if err != nil {
		s.logger.Error(ctx, "catalog read failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: msgCatalogUnavailable})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":    profile,
		"courses": courses,
	})
}

// GET /api/courses
func (s *Server) courses(c echo.Context) error {
	ctx := c.Request().Context()

	courses, err := s.catalog.ListCourseSummaries(ctx)
	if err != nil {
		s.logger.Error(ctx, "catalog read failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: msgCatalogUnavailable})
	}
	return c.JSON(http.StatusOK, courses)
}

// GET /api/quiz/:subject
func (s *Server) quiz(c echo.Context) error {
	ctx := c.Request().Context()

	questions, err := s.catalog.GetQuestions(ctx, c.Param("subject"))
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Error: msgQuizNotFound})
	case err != nil:
		s.logger.Error(ctx, "catalog read failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: msgCatalogUnavailable})
	}
	return c.JSON(http.StatusOK, questions)
}

// POST /api/progress
func (s *Server) updateProgress(c echo.Context) error {
	ctx := c.Request().Context()
	sess := currentSession(c)

	var req progressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgInvalidBody})
	}
	// scores are stored as a postgres integer
	if req.Score == nil || *req.Score < math.MinInt32 || *req.Score > math.MaxInt32 {
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgProgressRequired})
	}

	err := s.progress.UpdateProgress(ctx, sess.UserID, req.Subject, *req.Score)
	switch {
	case errors.Is(err, common.ErrorValidation):
		return c.JSON(http.StatusBadRequest, resultBody{Message: msgProgressRequired})
	case errors.Is(err, common.ErrorUnauthorized):
		return c.JSON(http.StatusUnauthorized, resultBody{Message: msgUnauthorized})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, resultBody{Message: msgInternal})
	}
	return c.JSON(http.StatusOK, resultBody{Success: true})
}

// GET /courses/*
func (s *Server) courseMaterial(c echo.Context) error {
	ctx := c.Request().Context()

	loc, err := s.materials.Locate(ctx, c.Param("*"))
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Error: msgMaterialNotFound})
	case err != nil:
		s.logger.Error(ctx, "material lookup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: msgInternal})
	}

	if loc.RedirectURL != "" {
		return c.Redirect(http.StatusFound, loc.RedirectURL)
	}
	return c.File(loc.FilePath)
}

func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
