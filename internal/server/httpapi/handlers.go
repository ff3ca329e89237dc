package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type handler struct {
	svc          AccountService
	logger       logging.Logger
	secureCookie bool
}

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type registerResponse struct {
	User             models.UserSummary `json:"user"`
	VerificationSent bool               `json:"verificationSent"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserSummary `json:"user"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{User: res.User, VerificationSent: res.VerificationSent})
}

// Verify is the target of the emailed link. Browsers are redirected to the
// login page; API clients asking for JSON get a JSON body.
func (h *handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.svc.Verify(r.Context(), q.Get("token"), q.Get("email")); err != nil {
		h.fail(w, r, "verify", err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
		return
	}
	http.Redirect(w, r, h.svc.VerifiedLandingURL(), http.StatusFound)
}

func (h *handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		h.fail(w, r, "resend verification", err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "If the account exists and is not verified, a new link has been sent."})
}

func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    res.Token,
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
}

func (h *handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.fail(w, r, "forgot password", err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "If the account exists, a reset link has been sent."})
}

func (h *handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.fail(w, r, "reset password", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated."})
}

func (h *handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	user, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, "admin get user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if services.KindOf(err) == services.KindInternal {
		h.logger.Error(r.Context(), op+" failed", "error", err)
	} else {
		h.logger.Debug(r.Context(), op+" rejected", "error", err)
	}
	writeError(w, err)
}
