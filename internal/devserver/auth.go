package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func readCredentials(c *gin.Context) credentials {
	var req credentials
	// a missing or malformed body behaves like an empty one
	_ = c.ShouldBindJSON(&req)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req
}

func (s *Server) register(c *gin.Context) {
	req := readCredentials(c)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		fail(c, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < minPasswordLen {
		fail(c, http.StatusBadRequest, "password too short (min 8)")
		return
	}

	var existing int64
	if err := s.db.Model(&User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		s.log.Error().Err(err).Msg("count users")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	if existing > 0 {
		fail(c, http.StatusBadRequest, "email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	user := User{ID: uuid.NewString(), Email: req.Email, PasswordHash: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		fail(c, http.StatusBadRequest, "email already exists")
		return
	}
	c.JSON(http.StatusCreated, user.toModel())
}

func (s *Server) login(c *gin.Context) {
	req := readCredentials(c)

	var user User
	err := s.db.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("load user")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if cost, err := bcrypt.Cost([]byte(user.PasswordHash)); err == nil && cost < s.cost {
		s.rehash(&user, req.Password)
	}

	token, err := s.tokens.issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("issue token")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token})
}

// rehash upgrades a hash made with an older cost. Failures only cost the upgrade.
func (s *Server) rehash(user *User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("rehash password")
		return
	}
	if err := s.db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("save rehashed password")
		return
	}
	s.log.Info().Str("user", user.ID).Msg("rehashed password")
}

func (s *Server) me(c *gin.Context) {
	token, ok := bearer(c.GetHeader("Authorization"))
	if !ok {
		fail(c, http.StatusUnauthorized, "missing auth")
		return
	}
	user, ok := s.userFromToken(token)
	if !ok {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	c.JSON(http.StatusOK, user.toModel())
}

func (s *Server) userFromToken(token string) (User, bool) {
	id, err := s.tokens.verify(token)
	if err != nil {
		return User{}, false
	}
	var user User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return User{}, false
	}
	return user, true
}

// authUserID is the caller's user id, or "" when the header is missing or invalid.
func (s *Server) authUserID(c *gin.Context) string {
	token, ok := bearer(c.GetHeader("Authorization"))
	if !ok {
		return ""
	}
	user, ok := s.userFromToken(token)
	if !ok {
		return ""
	}
	return user.ID
}
