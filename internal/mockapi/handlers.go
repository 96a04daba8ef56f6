package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/httpx"
	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
)

var errorMessages = map[error]string{
	ErrUsernameTaken: "Username already exists",
	ErrEmailTaken:    "Email already exists",
	ErrUserNotFound:  "User not found",
}

// registerBody mirrors a11ysdk.RegisterRequest, with the preferences kept
// loose so partial or unknown keys are tolerated the way hydrate does.
type registerBody struct {
	Username           string         `json:"username"`
	Email              string         `json:"email"`
	Password           string         `json:"password"`
	Role               a11ysdk.Role   `json:"role"`
	AccessibilityNeeds map[string]any `json:"accessibility_needs"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var body registerBody
	if err := httpx.ReadJSON(r, &body); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if body.Username == "" || body.Email == "" || body.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	if body.Role == "" {
		body.Role = a11ysdk.RoleNormalUser
	}
	if !body.Role.Valid() {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	needs := prefs.Defaults()
	for key, value := range body.AccessibilityNeeds {
		next, err := needs.With(key, value)
		if err != nil {
			log.Debug("register: ignoring preference", "key", key, "err", err)
			continue
		}
		needs = next
	}

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		log.Error("register: failed to hash password", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := s.users.create(a11ysdk.User{
		Username:           body.Username,
		Email:              body.Email,
		Role:               body.Role,
		AccessibilityNeeds: needs,
	}, hash)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, errorMessages[err])
		return
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	httpx.WriteMessage(w, http.StatusCreated, "User created successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var creds a11ysdk.Credentials
	if err := httpx.ReadJSON(r, &creds); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, hash, ok := s.users.credentials(creds.Username)
	if !ok {
		// Spend the same work as a real check.
		_ = s.hasher.Verify(creds.Password, s.dummyHash)
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := s.hasher.Verify(creds.Password, hash); err != nil {
		log.Info("login rejected", "username", creds.Username)
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error("login: failed to sign token", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("user logged in", "user_id", user.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, a11ysdk.LoginResponse{AccessToken: token, User: user})
}

func (s *Server) issueToken(u a11ysdk.User) (string, error) {
	// The subject is the numeric user id the settings handlers parse back.
	claims := jwtx.NewAccessClaims(strconv.FormatInt(u.ID, 10), u.Username, string(u.Role), s.cfg.Issuer, s.cfg.TokenTTL, time.Now())
	return s.signer.Sign(claims)
}

// subjectID resolves the authenticated user id, answering 401 itself when
// the subject is not one of ours.
func subjectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(httpx.SubjectFromContext(r.Context()), 10, 64)
	if err != nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Invalid token"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}

	user, err := s.users.get(id)
	if err != nil {
		httpx.WriteMessage(w, http.StatusNotFound, errorMessages[ErrUserNotFound])
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}

// handleUpdateSettings merges the posted keys over the stored preferences.
// Any unknown key or invalid value rejects the whole update.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	id, ok := subjectID(w, r)
	if !ok {
		return
	}

	var body a11ysdk.UpdateSettingsRequest
	if err := httpx.ReadJSON(r, &body); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.users.updateNeeds(id, func(p prefs.Preferences) (prefs.Preferences, error) {
		for key, value := range body.AccessibilityNeeds {
			next, err := p.With(key, value)
			if err != nil {
				return p, err
			}
			p = next
		}
		return p, nil
	})

	var unknown *prefs.UnknownSettingError
	var invalid *prefs.InvalidSettingValueError
	switch {
	case errors.Is(err, ErrUserNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, errorMessages[ErrUserNotFound])
		return
	case errors.As(err, &unknown), errors.As(err, &invalid):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error("update settings failed", "user_id", id, "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("settings updated", "user_id", id, "keys", len(body.AccessibilityNeeds))
	httpx.WriteMessage(w, http.StatusOK, "Settings updated successfully")
}

func (s *Server) handleLivez() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, a11ysdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(s.startTime).String(),
			Version: BuildVersion,
		})
	}
}
