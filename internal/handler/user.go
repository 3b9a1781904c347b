package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/middleware"
	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/service"
	"github.com/odontolegal/forensic-api/internal/utils"
)

// UserHandler serves /api/user: registration, login and profile management.
type UserHandler struct {
	Users  *repository.UserRepo
	Hasher utils.PasswordHasher
	Tokens *utils.TokenManager
	audit  auditor
}

func NewUserHandler(users *repository.UserRepo, hasher utils.PasswordHasher, tokens *utils.TokenManager, pub service.EventPublisher) *UserHandler {
	return &UserHandler{Users: users, Hasher: hasher, Tokens: tokens, audit: auditor{pub: pub, resource: "user"}}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | perito | assistente
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Message   string      `json:"message"`
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// updateUserReq leaves absent fields untouched.
type updateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func invalidRole(value string) error {
	return &model.ValidationError{Field: "role", Value: value, Message: "must be one of admin, perito, assistente"}
}

func isAdmin(c echo.Context) bool {
	who, ok := middleware.CurrentIdentity(c)
	return ok && who.Role == model.RoleAdmin
}

// Register handles POST /api/user.  New users default to assistente; any
// other role may only be granted by an authenticated admin.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	role := model.RoleAssistant
	if strings.TrimSpace(req.Role) != "" {
		r, ok := model.ParseRole(req.Role)
		if !ok {
			return fail(c, invalidRole(req.Role), "user", "")
		}
		role = r
	}
	if role != model.RoleAssistant && !isAdmin(c) {
		return forbidden(c, "only an admin can register "+string(role)+" users")
	}

	u := &model.User{Name: strings.TrimSpace(req.Name), Email: model.NormalizeEmail(req.Email), Role: role}
	if err := u.Validate(); err != nil {
		return fail(c, err, "user", "")
	}
	if strings.TrimSpace(req.Password) == "" {
		return fail(c, &model.ValidationError{Field: "password", Message: "required"}, "user", "")
	}
	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return fail(c, err, "user", "")
	}
	u.PasswordHash = hash

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		}
		return fail(c, err, "user", "")
	}
	h.audit.record(c, queue.ActionCreate, u.ID, 0)
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered", "user": u})
}

// Login handles POST /api/user/login.  An unknown email and a wrong password
// are both client errors but carry different messages.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email := model.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return badRequest(c, "user not found")
	}
	if err != nil {
		return fail(c, err, "user", "")
	}
	if !h.Hasher.Verify(req.Password, u.PasswordHash) {
		return badRequest(c, "incorrect password")
	}

	tok, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return fail(c, err, "user", "")
	}
	h.audit.emit(c, queue.AuditEvent{Action: queue.ActionLogin, ID: u.ID, ActorID: u.ID, ActorRole: string(u.Role)})
	return c.JSON(http.StatusOK, loginResp{Message: "login successful", User: u, Token: tok.Token, ExpiresAt: tok.Exp})
}

// List handles GET /api/user.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err, "user", "")
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/user/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "user", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "user", id)
	}
	return c.JSON(http.StatusOK, u)
}

// Me handles GET /api/user/me.
func (h *UserHandler) Me(c echo.Context) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, who.UserID)
	if err != nil {
		return fail(c, err, "user", who.UserID)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/user/:id.  Non-admins may only edit themselves and
// may not change their role.  The stored hash is replaced only when a new,
// non-blank password is supplied.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "user", "")
	}
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	admin := who.Role == model.RoleAdmin
	if !admin && who.UserID != id {
		return forbidden(c, "you can only update your own profile")
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "user", id)
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = model.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		r, ok := model.ParseRole(*req.Role)
		if !ok {
			return fail(c, invalidRole(*req.Role), "user", id)
		}
		if r != u.Role && !admin {
			return forbidden(c, "only an admin can change roles")
		}
		u.Role = r
	}
	if err := u.Validate(); err != nil {
		return fail(c, err, "user", id)
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hash, err := h.Hasher.Hash(*req.Password)
		if err != nil {
			return fail(c, err, "user", id)
		}
		u.PasswordHash = hash
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		}
		return fail(c, err, "user", id)
	}
	h.audit.record(c, queue.ActionUpdate, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated", "user": u})
}

// Delete handles DELETE /api/user/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "user", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return fail(c, err, "user", id)
	}
	h.audit.record(c, queue.ActionDelete, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted", "id": id})
}

// DeleteAll handles DELETE /api/user.  The admin check is repeated here so
// the operation stays restricted wherever it is mounted.
func (h *UserHandler) DeleteAll(c echo.Context) error {
	if !isAdmin(c) {
		return forbidden(c, "only an admin can delete all users")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Users.DeleteAll(ctx)
	if err != nil {
		return fail(c, err, "user", "")
	}
	h.audit.record(c, queue.ActionDeleteAll, "", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "all users deleted", "deletedCount": n})
}
