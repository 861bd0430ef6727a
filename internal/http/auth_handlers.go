package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"monipersonal/server/internal/auth"
	"monipersonal/server/internal/crypto"
	"monipersonal/server/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

func parseLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if isJSONRequest(r) {
		if err := decodeJSON(r, &req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
		req.UserType = r.PostFormValue("user_type")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	return req, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, "")
}

// handleAdminLogin is the admin-specific login variant; the role hint in the
// body is ignored.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, string(auth.RoleAdmin))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, forcedRole string) {
	logger := zerolog.Ctx(r.Context())

	req, err := parseLoginRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	roleHint := forcedRole
	if roleHint == "" {
		roleHint = req.UserType
	}
	if roleHint != string(auth.RoleAdmin) {
		roleHint = string(auth.RoleStudent)
	}

	logger.Info().Str("event", "login_attempt").Str("email", req.Email).Str("role", roleHint).Send()

	role, subjectID, ok := s.verifyCredentials(r, roleHint, req.Email, req.Password)
	if !ok {
		// Generic on purpose: never reveal whether the email or the
		// password was wrong.
		loginAttempts.WithLabelValues(roleHint, "failed").Inc()
		logger.Warn().Str("event", "login_failed").Str("email", req.Email).Str("role", roleHint).Send()
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := s.sessions.Create(r.Context(), string(role), subjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.setSessionCookie(w, token)

	loginAttempts.WithLabelValues(roleHint, "success").Inc()
	logger.Info().Str("event", "login_success").Str("role", string(role)).Int64("subject_id", subjectID).Send()

	landing := "/me/history"
	if role == auth.RoleAdmin {
		landing = "/admin/dashboard"
	}
	http.Redirect(w, r, landing, http.StatusSeeOther)
}

func (s *Server) verifyCredentials(r *http.Request, roleHint, email, password string) (auth.Role, int64, bool) {
	if roleHint == string(auth.RoleAdmin) {
		operator, err := s.store.GetActiveOperatorByEmail(r.Context(), email)
		if err != nil || !crypto.CheckPassword(operator.PasswordHash, password) {
			return "", 0, false
		}
		return auth.RoleAdmin, operator.ID, true
	}

	student, err := s.store.GetActiveStudentByEmail(r.Context(), email)
	if err != nil || !crypto.CheckPassword(student.PasswordHash, password) {
		return "", 0, false
	}
	return auth.RoleStudent, student.ID, true
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if token := sessionToken(r); token != "" {
		// A no-op for stateless signed tokens: those cannot be revoked
		// server-side and only die by expiry.
		if err := s.sessions.Invalidate(r.Context(), token); err != nil {
			logger.Error().Err(err).Str("event", "logout_invalidate_failed").Send()
		}
		if identity := identityFromContext(r.Context()); identity != nil {
			logger.Info().Str("event", "logout").Str("role", string(identity.Role)).Int64("subject_id", identity.SubjectID).Send()
		}
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	BirthDate       string `json:"birthDate"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func parseRegisterRequest(r *http.Request) (registerRequest, error) {
	var req registerRequest
	if isJSONRequest(r) {
		if err := decodeJSON(r, &req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
		req.Phone = r.PostFormValue("phone")
		req.BirthDate = r.PostFormValue("birth_date")
		req.Password = r.PostFormValue("password")
		req.ConfirmPassword = r.PostFormValue("confirm_password")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	return req, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	req, err := parseRegisterRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "password_mismatch")
		return
	}

	if _, err := s.store.GetStudentByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "email_taken")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	student := model.Student{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if req.Phone != "" {
		student.Phone = &req.Phone
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_birth_date")
			return
		}
		student.BirthDate = &birthDate
	}

	created, err := s.store.CreateStudent(r.Context(), student)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	logger.Info().Str("event", "student_registered").Int64("student_id", created.ID).Str("email", created.Email).Send()
	http.Redirect(w, r, "/login?registered=true", http.StatusSeeOther)
}
