package handlers

import "net/http"

// Routes wires every endpoint onto a ServeMux
type Routes struct {
	Attempts   *AttemptHandler
	Dictations *DictationHandler
	Middleware *Middleware
	MediaPath  string
}

// Handler builds the complete HTTP handler
func (rt Routes) Handler() http.Handler {
	m := rt.Middleware
	mux := http.NewServeMux()

	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(rt.MediaPath))))
	mux.HandleFunc("GET /healthz", Health)

	mux.HandleFunc("GET /api/dictations", rt.Dictations.List)
	mux.HandleFunc("POST /api/dictations", rt.Dictations.Create)
	mux.HandleFunc("GET /api/dictations/{id}", rt.Dictations.Get)
	mux.HandleFunc("POST /api/dictations/{id}/audio", m.RateLimit(rt.Dictations.Narrate))
	mux.HandleFunc("POST /api/dictation/generate/", m.RateLimit(rt.Dictations.Generate))

	mux.HandleFunc("POST /api/dictations/{id}/attempts", m.RateLimit(rt.Attempts.Submit))
	mux.HandleFunc("GET /api/dictations/{id}/attempts", rt.Attempts.List)
	mux.HandleFunc("GET /api/attempts/{id}", rt.Attempts.Get)
	mux.HandleFunc("POST /api/dictation/correct/", m.RateLimit(rt.Attempts.LegacyCorrect))

	mux.HandleFunc("GET /api/progress", m.RequireAuth(rt.Attempts.Progress))

	return Logging(m.OptionalAuth(mux))
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
