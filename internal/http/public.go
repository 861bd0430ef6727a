package http

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "monipersonal",
		"timestamp": s.now().UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "pong"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": "disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "connected",
	})
}

// The login and registration pages are rendered client-side; these stubs
// only exist so direct navigation answers something sensible.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":       "login",
		"registered": r.URL.Query().Get("registered") == "true",
	})
}

func (s *Server) handleAdminLoginPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": "admin_login"})
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": "register"})
}
