package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/card-directory/internal/api/http/handlers"
	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/events"
	"github.com/spec-kit/card-directory/internal/observability"
	"github.com/spec-kit/card-directory/internal/repository/memory"
	"github.com/spec-kit/card-directory/internal/service"
	"github.com/spec-kit/card-directory/internal/validation"
)

type testServer struct {
	t      *testing.T
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenManager("test-secret", auth.DefaultTokenTTL)
	dispatcher := events.NewInMemoryDispatcher()

	users, err := service.NewUserService(service.UserDependencies{
		UserRepo:   store.Users(),
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	cards := service.NewCardService(service.CardDependencies{CardRepo: store.Cards(), Dispatcher: dispatcher})
	validator := validation.New()
	metrics := observability.NewMetrics()

	app := NewApp(zap.NewNop(), metrics, MiddlewareConfig{Timeout: time.Second, AllowOrigins: "*"}, RouteConfig{
		Health:         handlers.NewHealthHandler("card-directory", "test", metrics, nil),
		Users:          handlers.NewUsersHandler(users, validator),
		Cards:          handlers.NewCardsHandler(cards, validator),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return &testServer{t: t, app: app, tokens: tokens}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func expectError(t *testing.T, status int, env envelope, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("expected status %d, got %d (%+v)", wantStatus, status, env.Error)
	}
	if env.Error == nil || env.Error.Code != wantCode {
		t.Fatalf("expected error code %s, got %+v", wantCode, env.Error)
	}
}

func registerBody(email string, business bool) map[string]any {
	return map[string]any{
		"name":       map[string]any{"first": "Ada", "last": "Lovelace"},
		"isBusiness": business,
		"phone":      "0501234567",
		"email":      email,
		"password":   "Abcdef1!",
		"address": map[string]any{
			"country": "Israel", "city": "Haifa", "street": "Herzl", "houseNumber": "5",
		},
	}
}

func cardBody(email string) map[string]any {
	return map[string]any{
		"title":       "Coffee House",
		"subtitle":    "Fresh beans daily",
		"description": "Neighbourhood coffee shop",
		"phone":       "050-1234567",
		"email":       email,
		"web":         "https://coffee.example.com",
		"image":       map[string]any{"url": "https://img.example.com/c.png", "alt": "logo"},
		"address": map[string]any{
			"country": "Israel", "city": "Haifa", "street": "Herzl", "houseNumber": "5", "zip": "12345",
		},
	}
}

type userJSON struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsBusiness bool   `json:"isBusiness"`
	IsAdmin    bool   `json:"isAdmin"`
}

type cardJSON struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Likes  []string `json:"likes"`
	UserID string   `json:"user_id"`
}

// signup registers and logs in, returning the user id and token.
func (s *testServer) signup(email string, business bool) (string, string) {
	s.t.Helper()
	status, env := s.do(nethttp.MethodPost, "/users", "", registerBody(email, business))
	if status != nethttp.StatusCreated {
		s.t.Fatalf("register %s: status %d (%+v)", email, status, env.Error)
	}
	user := decode[userJSON](s.t, env)

	status, env = s.do(nethttp.MethodPost, "/users/login", "", map[string]any{"email": email, "password": "Abcdef1!"})
	if status != nethttp.StatusOK {
		s.t.Fatalf("login %s: status %d (%+v)", email, status, env.Error)
	}
	login := decode[struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}](s.t, env)
	if login.Token == "" || login.ExpiresAt.IsZero() {
		s.t.Fatalf("login returned no token")
	}
	return user.ID, login.Token
}

func TestRegisterDoesNotExposePasswordOrAdmin(t *testing.T) {
	s := newTestServer(t)
	body := registerBody("a@b.com", true)
	body["isAdmin"] = true

	status, env := s.do(nethttp.MethodPost, "/users", "", body)
	if status != nethttp.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, env.Error)
	}
	var raw map[string]any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["password"]; ok {
		t.Fatalf("response must not carry the password")
	}
	if _, ok := raw["passwordHash"]; ok {
		t.Fatalf("response must not carry the password hash")
	}
	if raw["isAdmin"] != false || raw["isBusiness"] != true {
		t.Fatalf("unexpected flags %v", raw)
	}
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@b.com", false)

	status, env := s.do(nethttp.MethodPost, "/users", "", registerBody("a@b.com", false))
	expectError(t, status, env, nethttp.StatusBadRequest, "DUPLICATE_EMAIL")

	weak := registerBody("c@b.com", false)
	weak["password"] = "abcdef"
	status, env = s.do(nethttp.MethodPost, "/users", "", weak)
	expectError(t, status, env, nethttp.StatusBadRequest, "VALIDATION_FAILED")
	if env.Error.Details["field"] != "password" {
		t.Fatalf("expected password field, got %v", env.Error.Details)
	}
}

func TestLoginFailureIsForbidden(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@b.com", false)

	status, wrongPassword := s.do(nethttp.MethodPost, "/users/login", "", map[string]any{"email": "a@b.com", "password": "Wrong1!x"})
	expectError(t, status, wrongPassword, nethttp.StatusForbidden, "INVALID_CREDENTIALS")

	status, unknown := s.do(nethttp.MethodPost, "/users/login", "", map[string]any{"email": "x@b.com", "password": "Abcdef1!"})
	expectError(t, status, unknown, nethttp.StatusForbidden, "INVALID_CREDENTIALS")

	if wrongPassword.Error.Message != unknown.Error.Message {
		t.Fatalf("login failures must be indistinguishable")
	}
}

func TestCardLifecycle(t *testing.T) {
	s := newTestServer(t)
	ownerID, ownerToken := s.signup("biz@b.com", true)
	fanID, fanToken := s.signup("fan@b.com", false)

	status, env := s.do(nethttp.MethodPost, "/cards", ownerToken, cardBody("coffee@b.com"))
	if status != nethttp.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%+v)", status, env.Error)
	}
	card := decode[cardJSON](t, env)
	if card.UserID != ownerID || len(card.Likes) != 0 {
		t.Fatalf("unexpected card %+v", card)
	}

	status, env = s.do(nethttp.MethodPatch, "/cards/"+card.ID, fanToken, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("like: expected 200, got %d", status)
	}
	if liked := decode[cardJSON](t, env); len(liked.Likes) != 1 || liked.Likes[0] != fanID {
		t.Fatalf("expected fan in likes, got %v", liked.Likes)
	}

	status, env = s.do(nethttp.MethodPatch, "/cards/"+card.ID, fanToken, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", status)
	}
	if unliked := decode[cardJSON](t, env); len(unliked.Likes) != 0 {
		t.Fatalf("expected empty likes, got %v", unliked.Likes)
	}

	update := cardBody("coffee@b.com")
	update["title"] = "Tea House"
	status, env = s.do(nethttp.MethodPut, "/cards/"+card.ID, ownerToken, update)
	if status != nethttp.StatusOK || decode[cardJSON](t, env).Title != "Tea House" {
		t.Fatalf("update failed: %d (%+v)", status, env.Error)
	}

	status, env = s.do(nethttp.MethodPut, "/cards/"+card.ID, fanToken, update)
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	status, env = s.do(nethttp.MethodGet, "/cards/my-cards", ownerToken, nil)
	if status != nethttp.StatusOK || len(decode[[]cardJSON](t, env)) != 1 {
		t.Fatalf("my-cards failed: %d", status)
	}

	status, env = s.do(nethttp.MethodGet, "/cards", "", nil)
	if status != nethttp.StatusOK || len(decode[[]cardJSON](t, env)) != 1 {
		t.Fatalf("public list failed: %d", status)
	}

	status, env = s.do(nethttp.MethodDelete, "/cards/"+card.ID, fanToken, nil)
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	status, _ = s.do(nethttp.MethodDelete, "/cards/"+card.ID, ownerToken, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", status)
	}

	status, env = s.do(nethttp.MethodGet, "/cards/"+card.ID, "", nil)
	expectError(t, status, env, nethttp.StatusNotFound, "NOT_FOUND")
}

func TestCreateCardRules(t *testing.T) {
	s := newTestServer(t)
	_, privateToken := s.signup("a@b.com", false)
	_, businessToken := s.signup("biz@b.com", true)

	status, env := s.do(nethttp.MethodPost, "/cards", privateToken, cardBody("coffee@b.com"))
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	// Business check runs before the payload is validated.
	status, env = s.do(nethttp.MethodPost, "/cards", privateToken, map[string]any{})
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	status, env = s.do(nethttp.MethodPost, "/cards", "", cardBody("coffee@b.com"))
	expectError(t, status, env, nethttp.StatusUnauthorized, "UNAUTHENTICATED")

	invalid := cardBody("coffee@b.com")
	delete(invalid, "title")
	status, env = s.do(nethttp.MethodPost, "/cards", businessToken, invalid)
	expectError(t, status, env, nethttp.StatusBadRequest, "VALIDATION_FAILED")

	if status, _ := s.do(nethttp.MethodPost, "/cards", businessToken, cardBody("coffee@b.com")); status != nethttp.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	status, env = s.do(nethttp.MethodPost, "/cards", businessToken, cardBody("coffee@b.com"))
	expectError(t, status, env, nethttp.StatusBadRequest, "DUPLICATE_EMAIL")
}

func TestTokenHandling(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup("a@b.com", false)

	status, env := s.do(nethttp.MethodGet, "/cards/my-cards", "", nil)
	expectError(t, status, env, nethttp.StatusUnauthorized, "UNAUTHENTICATED")

	status, env = s.do(nethttp.MethodGet, "/cards/my-cards", "garbage", nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")

	status, env = s.do(nethttp.MethodGet, "/cards/my-cards", token+"x", nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")

	stale := s.tokens.WithClock(func() time.Time { return time.Now().Add(-16 * time.Minute) })
	expired, _, err := stale.Issue(domain.Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	status, env = s.do(nethttp.MethodGet, "/cards/my-cards", expired, nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")

	status, env = s.do(nethttp.MethodPatch, "/cards/00000000-0000-0000-0000-000000000000", expired, nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")

	status, env = s.do(nethttp.MethodPost, "/cards", "garbage", cardBody("coffee@b.com"))
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")
}

func TestPublicRoutesIgnoreStaleToken(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@b.com", true)

	stale := s.tokens.WithClock(func() time.Time { return time.Now().Add(-16 * time.Minute) })
	expired, _, err := stale.Issue(domain.Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, env := s.do(nethttp.MethodPost, "/users/login", expired, map[string]any{"email": "a@b.com", "password": "Abcdef1!"})
	if status != nethttp.StatusOK {
		t.Fatalf("login with stale header: expected 200, got %d (%+v)", status, env.Error)
	}

	status, env = s.do(nethttp.MethodPost, "/users", "garbage", registerBody("b@b.com", false))
	if status != nethttp.StatusCreated {
		t.Fatalf("register with bad header: expected 201, got %d (%+v)", status, env.Error)
	}

	status, env = s.do(nethttp.MethodGet, "/cards", expired, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("list cards with stale header: expected 200, got %d (%+v)", status, env.Error)
	}

	status, env = s.do(nethttp.MethodGet, "/cards/00000000-0000-0000-0000-000000000000", "garbage", nil)
	expectError(t, status, env, nethttp.StatusNotFound, "NOT_FOUND")
}

func TestCardWritesCheckTokenBeforePayload(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.signup("biz@b.com", true)

	status, env := s.do(nethttp.MethodPost, "/cards", owner, cardBody("coffee@b.com"))
	if status != nethttp.StatusCreated {
		t.Fatalf("create: expected 201, got %d", status)
	}
	card := decode[cardJSON](t, env)

	status, env = s.do(nethttp.MethodPut, "/cards/"+card.ID, "", map[string]any{"title": "x"})
	expectError(t, status, env, nethttp.StatusUnauthorized, "UNAUTHENTICATED")

	status, env = s.do(nethttp.MethodPut, "/cards/"+card.ID, "garbage", map[string]any{"title": "x"})
	expectError(t, status, env, nethttp.StatusBadRequest, "INVALID_TOKEN")

	status, env = s.do(nethttp.MethodPut, "/cards/"+card.ID, owner, map[string]any{"title": "x"})
	expectError(t, status, env, nethttp.StatusBadRequest, "VALIDATION_FAILED")
}

func TestMalformedAndMissingIDs(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup("a@b.com", false)

	status, env := s.do(nethttp.MethodGet, "/cards/not-an-id", "", nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "MALFORMED_ID")

	status, env = s.do(nethttp.MethodGet, "/cards/00000000-0000-0000-0000-000000000000", "", nil)
	expectError(t, status, env, nethttp.StatusNotFound, "NOT_FOUND")

	status, env = s.do(nethttp.MethodPatch, "/cards/not-an-id", token, nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "MALFORMED_ID")

	status, env = s.do(nethttp.MethodGet, "/users/not-an-id", token, nil)
	expectError(t, status, env, nethttp.StatusBadRequest, "MALFORMED_ID")
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.signup("a@b.com", false)
	businessID, businessToken := s.signup("biz@b.com", true)

	status, env := s.do(nethttp.MethodGet, "/users/"+userID, businessToken, nil)
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	status, env = s.do(nethttp.MethodGet, "/users/"+businessID, token, nil)
	if status != nethttp.StatusOK || decode[userJSON](t, env).Email != "biz@b.com" {
		t.Fatalf("get user failed: %d", status)
	}

	status, env = s.do(nethttp.MethodGet, "/users", token, nil)
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	adminToken, _, err := s.tokens.Issue(domain.Claims{UserID: "admin", IsAdmin: true})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	status, env = s.do(nethttp.MethodGet, "/users", adminToken, nil)
	if status != nethttp.StatusOK || len(decode[[]userJSON](t, env)) != 2 {
		t.Fatalf("admin list failed: %d", status)
	}

	status, env = s.do(nethttp.MethodPatch, "/users/"+userID, token, map[string]any{"isBusiness": true})
	if status != nethttp.StatusOK || !decode[userJSON](t, env).IsBusiness {
		t.Fatalf("set business failed: %d (%+v)", status, env.Error)
	}

	update := registerBody("renamed@b.com", false)
	delete(update, "isBusiness")
	status, env = s.do(nethttp.MethodPut, "/users/"+userID, token, update)
	if status != nethttp.StatusOK || decode[userJSON](t, env).Email != "renamed@b.com" {
		t.Fatalf("update failed: %d (%+v)", status, env.Error)
	}

	status, env = s.do(nethttp.MethodPut, "/users/"+userID, "", update)
	expectError(t, status, env, nethttp.StatusUnauthorized, "UNAUTHENTICATED")

	status, env = s.do(nethttp.MethodDelete, "/users/"+userID, businessToken, nil)
	expectError(t, status, env, nethttp.StatusForbidden, "FORBIDDEN")

	status, _ = s.do(nethttp.MethodDelete, "/users/"+userID, token, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("delete: expected 200, got %d", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	if status, _ := s.do(nethttp.MethodGet, "/health/ready", "", nil); status != nethttp.StatusOK {
		t.Fatalf("ready: expected 200, got %d", status)
	}
	s.do(nethttp.MethodGet, "/cards", "", nil)

	status, env := s.do(nethttp.MethodGet, "/metrics", "", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", status)
	}
	snap := decode[observability.Snapshot](t, env)
	found := false
	for _, counter := range snap.Requests {
		if counter.Key == "GET /cards/ 200" || counter.Key == "GET /cards 200" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected /cards request counter, got %+v", snap.Requests)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(nethttp.MethodGet, "/nope", "", nil)
	expectError(t, status, env, nethttp.StatusNotFound, "NOT_FOUND")
}

func TestCORSAllowsAnyOriginWithCredentials(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/cards", nil)
	req.Header.Set("Origin", "https://client.example.com")
	req.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", auth.TokenHeader)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://client.example.com" {
		t.Fatalf("expected origin to be echoed, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials to be allowed, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, auth.TokenHeader) {
		t.Fatalf("expected %s in allowed headers, got %q", auth.TokenHeader, got)
	}
}
