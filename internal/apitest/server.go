// Package apitest provides an in-memory fake of the subscription REST API for tests.
package apitest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// BasePath is the version prefix the fake serves under
const BasePath = "/api/v1"

// RecordedRequest is a request as seen by the fake server
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
	Body          string
}

type user struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type failure struct {
	status  int
	message string
}

// Server is a fake subscription API backed by gin
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]*user
	tokens    map[string]string
	subs      []gin.H
	nextID    int
	requests  []RecordedRequest
	failures  map[string]failure
	reminders []string
	listKey   string
}

// NewServer starts a fake API server that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		users:    make(map[string]*user),
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
		listKey:  "data",
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)

	return s
}

// BaseURL is the URL clients should be configured with
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.injectFailures)

	v1 := r.Group(BasePath)
	v1.POST("/auth/sign-up", s.signUp)
	v1.POST("/auth/sign-in", s.signIn)

	subs := v1.Group("/subscriptions", s.requireToken)
	subs.GET("", s.list)
	subs.POST("", s.create)
	subs.POST("/reminders", s.triggerReminders)
	subs.PUT("/:id", s.update)
	subs.DELETE("/:id", s.delete)

	return r
}

// RegisterUser creates an account directly and returns its bearer token
func (s *Server) RegisterUser(name, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

func (s *Server) addUserLocked(name, email, password string) string {
	s.nextID++
	u := &user{ID: fmt.Sprintf("user-%d", s.nextID), Name: name, Email: email, Password: password}
	s.users[email] = u
	token := "token-" + u.ID
	s.tokens[token] = u.ID
	return token
}

// Seed adds subscriptions owned by the holder of token
func (s *Server) Seed(token string, subs ...gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.tokens[token]
	for _, sub := range subs {
		record := gin.H{}
		for k, v := range sub {
			record[k] = v
		}
		if _, ok := record["_id"]; !ok {
			s.nextID++
			record["_id"] = fmt.Sprintf("sub-%d", s.nextID)
		}
		record["user"] = owner
		s.subs = append(s.subs, record)
	}
}

// Subscriptions returns the records owned by the holder of token
func (s *Server) Subscriptions(token string) []gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownedLocked(s.tokens[token])
}

// Requests returns every request received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Reminders returns the subscription ids reminders were triggered for
func (s *Server) Reminders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reminders...)
}

// FailNext makes the next request to route (for example "DELETE /subscriptions/:id") fail
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// SetListKey selects the envelope field the list endpoint uses ("data" or "subscriptions")
func (s *Server) SetListKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listKey = key
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.GetHeader("Content-Type"),
		RequestID:     c.GetHeader("X-Request-ID"),
		Body:          string(body),
	})
	s.mu.Unlock()

	c.Next()
}

func (s *Server) injectFailures(c *gin.Context) {
	route := c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), BasePath)

	s.mu.Lock()
	f, ok := s.failures[route]
	if ok {
		delete(s.failures, route)
	}
	s.mu.Unlock()

	if ok {
		if f.message == "" {
			c.AbortWithStatusJSON(f.status, gin.H{"success": false})
			return
		}
		c.AbortWithStatusJSON(f.status, gin.H{"success": false, "message": f.message})
		return
	}

	c.Next()
}

func (s *Server) requireToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	s.mu.Lock()
	userID, ok := s.tokens[token]
	s.mu.Unlock()

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	c.Set("userID", userID)
	c.Next()
}

func (s *Server) authResponse(c *gin.Context, status int, u *user, token string) {
	c.JSON(status, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"_id":   u.ID,
				"name":  u.Name,
				"email": u.Email,
			},
		},
	})
}

func (s *Server) signUp(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name, email and password are required"})
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "User already exists"})
		return
	}
	token := s.addUserLocked(req.Name, req.Email, req.Password)
	u := s.users[req.Email]
	s.mu.Unlock()

	s.authResponse(c, http.StatusCreated, u, token)
}

func (s *Server) signIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Email]
	var token string
	if ok && u.Password == req.Password {
		for t, id := range s.tokens {
			if id == u.ID {
				token = t
				break
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid password"})
		return
	}

	s.authResponse(c, http.StatusOK, u, token)
}

func (s *Server) ownedLocked(userID string) []gin.H {
	owned := make([]gin.H, 0)
	for _, sub := range s.subs {
		if sub["user"] == userID {
			owned = append(owned, sub)
		}
	}
	return owned
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	owned := s.ownedLocked(c.GetString("userID"))
	key := s.listKey
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, key: owned})
}

func (s *Server) create(c *gin.Context) {
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid subscription"})
		return
	}

	s.mu.Lock()
	s.nextID++
	body["_id"] = fmt.Sprintf("sub-%d", s.nextID)
	body["user"] = c.GetString("userID")
	s.subs = append(s.subs, body)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": body})
}

func (s *Server) update(c *gin.Context) {
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid subscription"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub["_id"] == c.Param("id") && sub["user"] == c.GetString("userID") {
			for k, v := range body {
				if k != "_id" && k != "user" {
					sub[k] = v
				}
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": sub})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Subscription not found"})
}

func (s *Server) delete(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub["_id"] == c.Param("id") && sub["user"] == c.GetString("userID") {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription deleted"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Subscription not found"})
}

func (s *Server) triggerReminders(c *gin.Context) {
	var body struct {
		SubscriptionID string `json:"subscriptionId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "subscriptionId is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.ownedLocked(c.GetString("userID")) {
		if sub["_id"] == body.SubscriptionID {
			s.reminders = append(s.reminders, body.SubscriptionID)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reminders triggered"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Subscription not found"})
}
