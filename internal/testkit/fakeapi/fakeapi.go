// Package fakeapi is an in-process double of the remote directory API for
// tests. It follows the reqres.in contract: API-key header on every call,
// a login endpoint issuing tokens, a paged user listing, and create/update
// endpoints that acknowledge without echoing the record.
//
// Tokens are HS256 JWTs; ExpireSessions rotates the signing key so every
// token issued before the call is rejected with 401.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultEmail    = "eve.holt@reqres.in"
	DefaultPassword = "cityslicka"
	PerPage         = 6
)

// Recorded is what the server saw of one request.
type Recorded struct {
	Method        string
	Path          string
	APIKey        string
	Authorization string
	RequestID     string
}

// Server holds the fake directory. Safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	apiKey   string
	email    string
	hash     []byte
	secret   []byte
	epoch    int
	users    []models.Entry
	nextID   int
	failNext map[string]failure
	requests []Recorded
}

type failure struct {
	status  int
	message string
}

// New returns a server seeded with the twelve reqres.in users and the
// default credentials.
func New(apiKey string) *Server {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s := &Server{
		apiKey:   apiKey,
		email:    DefaultEmail,
		hash:     hash,
		users:    SeedUsers(),
		nextID:   100,
		failNext: map[string]failure{},
	}
	s.secret = s.makeSecret()
	return s
}

// SeedUsers returns the reqres.in sample directory.
func SeedUsers() []models.Entry {
	names := [][2]string{
		{"George", "Bluth"}, {"Janet", "Weaver"}, {"Emma", "Wong"},
		{"Eve", "Holt"}, {"Charles", "Morris"}, {"Tracey", "Ramos"},
		{"Michael", "Lawson"}, {"Lindsay", "Ferguson"}, {"Tobias", "Funke"},
		{"Byron", "Fields"}, {"George", "Edwards"}, {"Rachel", "Howell"},
	}
	out := make([]models.Entry, 0, len(names))
	for i, n := range names {
		id := i + 1
		out = append(out, models.Entry{
			ID:        id,
			Email:     strings.ToLower(n[0]+"."+n[1]) + "@reqres.in",
			FirstName: n[0],
			LastName:  n[1],
			AvatarURL: fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		})
	}
	return out
}

// Handler returns the router; mount it at the server root, the API lives
// under /api.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.record, s.requireAPIKey, s.injectFailure)

	api.HandleFunc("/login", s.login).Methods(http.MethodPost)

	api.Handle("/users", s.requireToken(http.HandlerFunc(s.list))).Methods(http.MethodGet)
	api.Handle("/users", s.requireToken(http.HandlerFunc(s.create))).Methods(http.MethodPost)
	api.Handle("/users/{id:[0-9]+}", s.requireToken(http.HandlerFunc(s.update))).Methods(http.MethodPut)
	api.Handle("/users/{id:[0-9]+}", s.requireToken(http.HandlerFunc(s.remove))).Methods(http.MethodDelete)
	return r
}

// FailNext makes the next request whose path ends with suffix ("/login",
// "/users", "/users/3") answer status with message instead of being served.
func (s *Server) FailNext(suffix string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[suffix] = failure{status: status, message: message}
}

// ExpireSessions invalidates every token issued so far.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.secret = s.makeSecret()
}

// Requests returns a copy of everything recorded so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// IssueToken signs a token directly, bypassing the login endpoint.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign(email)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) makeSecret() []byte {
	return []byte(fmt.Sprintf("fakeapi-secret-%d-%d", s.epoch, time.Now().UnixNano()))
}

func (s *Server) sign(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) verify(token string) error {
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.RequestURI(),
			APIKey:        r.Header.Get(common.APIKeyHeaderName),
			Authorization: r.Header.Get(common.AuthorizationHeaderName),
			RequestID:     r.Header.Get(common.RequestIDHeaderName),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.APIKeyHeaderName) != s.apiKey {
			writeError(w, http.StatusForbidden, "Missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var (
			f  failure
			ok bool
		)
		for suffix, candidate := range s.failNext {
			if strings.HasSuffix(r.URL.Path, suffix) {
				f, ok = candidate, true
				delete(s.failNext, suffix)
				break
			}
		}
		s.mu.Unlock()

		if ok {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(raw, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		if err := s.verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing email or username")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing password")
		return
	}
	if !strings.EqualFold(req.Email, s.email) {
		writeError(w, http.StatusBadRequest, "user not found")
		return
	}
	if bcrypt.CompareHashAndPassword(s.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	s.mu.Lock()
	token, err := s.sign(req.Email)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	s.mu.Lock()
	total := len(s.users)
	start := (page - 1) * PerPage
	data := []models.Entry{}
	if start < total {
		end := min(start+PerPage, total)
		data = append(data, s.users[start:end]...)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.Page{
		Entries:    data,
		Page:       page,
		PerPage:    PerPage,
		Total:      total,
		TotalPages: (total + PerPage - 1) / PerPage,
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":        strconv.Itoa(id),
		"name":      d.Name,
		"job":       d.Job,
		"createdAt": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":      d.Name,
		"job":       d.Job,
		"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.Atoi(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
