package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *server) runHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPListen,
		Handler:           s.newRouter(),
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("listen", s.cfg.HTTPListen).Msg("http listening")
	return httpServer.ListenAndServe()
}

func (s *server) newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.apiAuthMiddleware)
		r.Get("/v1/zones/search", s.handleZoneSearch)
		r.Post("/v1/users", s.handleCreateUser)
		r.Post("/v1/domains", s.handleCreateDomain)
		r.Post("/v1/domains/{id}/records", s.handleCreateRecord)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{
		"ok":         true,
		"engine":     s.persist.engine,
		"uptime_sec": int(time.Since(s.start).Seconds()),
	}
	if err := s.persist.ping(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["ok"] = false
		body["error"] = err.Error()
	}
	writeJSON(w, status, body)
}

func (s *server) handleZoneSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFrom(ctx)
	q := r.URL.Query()

	userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get("X-User-ID")), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid X-User-ID header")
		return
	}

	user, err := s.persist.getUser(ctx, userID)
	if errors.Is(err, errUserNotFound) {
		writeError(w, http.StatusForbidden, "unknown user")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("user lookup failed")
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return
	}
	if !user.Active {
		writeError(w, http.StatusForbidden, "user is disabled")
		return
	}

	sortParam := q.Get("sort")
	if strings.TrimSpace(sortParam) == "" {
		sortParam = s.cfg.SearchSort
	}
	sortKey, ok := resolveSortKey(sortParam)
	if !ok {
		writeError(w, http.StatusBadRequest, "sort must be one of name, type, count_records, owner")
		return
	}

	req := searchRequest{
		Query:    q.Get("q"),
		Reverse:  parseBoolParam(q.Get("reverse")),
		Wildcard: parseBoolParam(q.Get("wildcard")),
		Scope:    scopeOwn,
		SortKey:  sortKey,
		RowLimit: s.cfg.rowLimitFor(q.Get("limit")),
		UserID:   user.ID,
	}
	if user.ViewAllZones {
		req.Scope = scopeAll
	}

	zones, tokens, err := s.search.search(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("query", req.Query).Msg("zone search failed")
		writeError(w, http.StatusInternalServerError, "zone search failed")
		return
	}

	logger.Debug().Int("zones", len(zones)).Msg("zone search done")
	writeJSON(w, http.StatusOK, searchResponse{Zones: zones, ReverseAttempted: tokens.ReverseAttempted})
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	u, err := s.persist.createUser(r.Context(), req)
	if err != nil {
		logger := loggerFrom(r.Context())
		logger.Error().Err(err).Msg("create user failed")
		writeError(w, http.StatusConflict, "could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *server) handleCreateDomain(w http.ResponseWriter, r *http.Request) {
	var req createDomainRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name, err := canonicalDomainName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.persist.createDomain(r.Context(), name, normalizeDomainType(req.Type), req.Owners)
	if errors.Is(err, errUserNotFound) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger := loggerFrom(r.Context())
		logger.Error().Err(err).Str("domain", name).Msg("create domain failed")
		writeError(w, http.StatusConflict, "could not create domain")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	domainID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || domainID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid domain id")
		return
	}

	var req createRecordRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, found, err := s.persist.getDomain(r.Context(), domainID)
	if err != nil {
		logger := loggerFrom(r.Context())
		logger.Error().Err(err).Msg("domain lookup failed")
		writeError(w, http.StatusInternalServerError, "domain lookup failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "domain not found")
		return
	}

	recordType, ok := normalizeRecordType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown record type")
		return
	}

	name := d.Name
	if strings.TrimSpace(req.Name) != "" {
		name, err = canonicalDomainName(req.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ttl := req.TTL
	if ttl == 0 {
		ttl = 3600
	}

	rec, err := s.persist.addRecord(r.Context(), recordModel{
		DomainID: d.ID,
		Name:     name,
		Type:     &recordType,
		Content:  strings.TrimSpace(req.Content),
		TTL:      ttl,
		Prio:     req.Prio,
	})
	if err != nil {
		logger := loggerFrom(r.Context())
		logger.Error().Err(err).Msg("create record failed")
		writeError(w, http.StatusInternalServerError, "could not create record")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) apiAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIToken != "" && !validToken(r, s.cfg.APIToken) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
