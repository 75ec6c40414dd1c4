package handler

import (
	"net/http"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.auth.Register(body.Username, domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Confirmation code sent to your email"))
}

func (h *Handler) CheckConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var body api.ConfirmRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.CheckConfirmationCode(body.Email, body.Code); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Email confirmed. You can login now"))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, user, err := h.auth.Login(domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setSessionCookie(w, accessToken)
	writeJSON(w, api.LoginResponse{Username: user.Username, Email: user.Email})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Optional body carries the stored login token to revoke alongside
	// the session.
	var body api.TokenLoginRequest
	if err := utils.Decode(r.Body, &body); err == nil && body.Token != "" {
		if err := h.auth.DeleteLoginToken(body.Token); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
	})

	w.WriteHeader(http.StatusOK)
}

// ChangePassword updates the authenticated user's password after
// re-checking the current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.ChangePasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ChangePassword(user.Email, body.CurrentPassword, body.NewPassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Password changed"))
}

// CreateLoginToken issues a single-use token the client stores locally and
// can redeem later for a fresh session without a password.
func (h *Handler) CreateLoginToken(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.CreateLoginToken(user.Email)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.LoginTokenResponse{Token: token.Token}, http.StatusCreated)
}

func (h *Handler) RedeemLoginToken(w http.ResponseWriter, r *http.Request) {
	var body api.TokenLoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, user, err := h.auth.RedeemLoginToken(body.Token)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setSessionCookie(w, accessToken)
	writeJSON(w, api.LoginResponse{Username: user.Username, Email: user.Email})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
	})
}
