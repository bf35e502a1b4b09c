package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/config"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/service"
	"github.com/fieldworks/fieldworks-api/internal/weather"
)

// stubProductRepo backs the product service with an in-memory map.
type stubProductRepo struct {
	products map[primitive.ObjectID]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (s *stubProductRepo) Insert(ctx context.Context, p *domain.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products[p.ID] = p
	return nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubProductRepo) List(ctx context.Context, opts *query.Options) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, p := range s.products {
		result = append(result, p)
	}
	return result, nil
}

func (s *stubProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	copied := *p
	s.products[p.ID] = &copied
	return nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// stubUserRepo backs the user service with an in-memory map.
type stubUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (s *stubUserRepo) Insert(ctx context.Context, u *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// stubOrderRepo backs the order service with an in-memory map.
type stubOrderRepo struct {
	orders map[primitive.ObjectID]*domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (s *stubOrderRepo) Insert(ctx context.Context, o *domain.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.orders[o.ID] = o
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *stubOrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (s *stubOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range s.orders {
		result = append(result, o)
	}
	return result, nil
}

func (s *stubOrderRepo) Update(ctx context.Context, o *domain.Order) error {
	if _, ok := s.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

// stubKBRepo backs the knowledge base service with an in-memory map.
type stubKBRepo struct {
	items map[primitive.ObjectID]*domain.KnowledgeBaseItem
}

func newStubKBRepo() *stubKBRepo {
	return &stubKBRepo{items: make(map[primitive.ObjectID]*domain.KnowledgeBaseItem)}
}

func (s *stubKBRepo) Insert(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubKBRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.KnowledgeBaseItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubKBRepo) List(ctx context.Context, opts *query.Options) ([]*domain.KnowledgeBaseItem, error) {
	var result []*domain.KnowledgeBaseItem
	for _, item := range s.items {
		result = append(result, item)
	}
	return result, nil
}

func (s *stubKBRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *stubKBRepo) Search(ctx context.Context, term string) ([]*domain.KnowledgeBaseItem, error) {
	var result []*domain.KnowledgeBaseItem
	for _, item := range s.items {
		result = append(result, item)
	}
	return result, nil
}

func (s *stubKBRepo) Update(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrArticleNotFound
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *stubKBRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.items[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(s.items, id)
	return nil
}

// testEnv wires a full router against in-memory repositories.
type testEnv struct {
	router   http.Handler
	tokens   *auth.TokenManager
	users    *stubUserRepo
	products *stubProductRepo
	orders   *stubOrderRepo
	kb       *stubKBRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	users := newStubUserRepo()
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	kb := newStubKBRepo()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	responder := NewResponder(logger, false)

	userService := service.NewUserService(users, tokens, logger)
	productService := service.NewProductService(products, users, nil, 1024*1024, logger)
	orderService := service.NewOrderService(orders, products, users, logger)
	kbService := service.NewKnowledgeBaseService(kb, logger)
	weatherClient := weather.NewClient(config.WeatherConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 100 * time.Millisecond,
	}, logger)

	router := NewRouter(RouterConfig{
		Auth:           NewAuthHandler(userService, responder, logger),
		Products:       NewProductHandler(productService, responder, logger),
		KnowledgeBase:  NewKnowledgeBaseHandler(kbService, responder, logger),
		Orders:         NewOrderHandler(orderService, responder, logger),
		Weather:        NewWeatherHandler(weatherClient, responder, logger),
		AuthMiddleware: auth.NewMiddleware(tokens, logger),
		Responder:      responder,
		Logger:         logger,
	})

	return &testEnv{
		router:   router,
		tokens:   tokens,
		users:    users,
		products: products,
		orders:   orders,
		kb:       kb,
	}
}

// tokenFor registers a user directly in the stub repo and issues a token.
func (e *testEnv) tokenFor(t *testing.T, role domain.Role) (string, *domain.User) {
	t.Helper()
	u := &domain.User{
		Name:  "Test " + string(role),
		Email: fmt.Sprintf("%s-%s@fieldworks.dev", role, primitive.NewObjectID().Hex()),
		Role:  role,
	}
	require.NoError(t, e.users.Insert(context.Background(), u))
	token, err := e.tokens.Issue(u)
	require.NoError(t, err)
	return token, u
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ProductRoutes(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.tokenFor(t, domain.RoleAdmin)
	userToken, _ := env.tokenFor(t, domain.RoleUser)

	create := map[string]interface{}{
		"name":        "DAP Fertilizer",
		"price":       49.99,
		"description": "Planting fertilizer",
		"category":    "Fertilizers",
	}

	t.Run("anonymous create rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", "", create)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("plain user create forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", userToken, create)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	var createdID string
	t.Run("admin create succeeds", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/products", adminToken, create)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body struct {
			Success bool `json:"success"`
			Data    struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.Success, rec.Body.String())
		require.NotEmpty(t, body.Data.ID, rec.Body.String())
		createdID = body.Data.ID
	})

	t.Run("public list carries envelope", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/products", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool            `json:"success"`
			Count   *int            `json:"count"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success, rec.Body.String())
		require.NotNil(t, body.Count, rec.Body.String())
		assert.Equal(t, 1, *body.Count)
	})

	t.Run("public get by id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/products/"+createdID, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/products/"+primitive.NewObjectID().Hex(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed filter is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/products?price[gt]=NaN", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_KnowledgeBaseRoutes(t *testing.T) {
	env := newTestEnv(t)
	publisherToken, _ := env.tokenFor(t, domain.RolePublisher)
	userToken, _ := env.tokenFor(t, domain.RoleUser)

	create := map[string]interface{}{
		"title":       "Crop Rotation Basics",
		"description": "An introduction",
		"content":     "Rotate crops across seasons.",
		"category":    "Crop Management",
		"type":        "guide",
		"level":       "Beginner",
		"duration":    "10 min",
	}

	t.Run("publisher can create", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/knowledge-base", publisherToken, create)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/knowledge-base", userToken, create)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("search without term is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/knowledge-base/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search with term", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/knowledge-base/search?q=rotation", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_OrderRoutes(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.tokenFor(t, domain.RoleAdmin)
	userToken, user := env.tokenFor(t, domain.RoleUser)

	productID := primitive.NewObjectID()
	order := map[string]interface{}{
		"orderItems": []map[string]interface{}{
			{"id": productID.Hex(), "name": "Seeds", "qty": 2, "price": 38.5},
		},
		"paymentMethod": "M-Pesa",
		"totalPrice":    77,
	}

	t.Run("anonymous create rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders", "", order)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("any authenticated user can order", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders", userToken, order)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("empty items is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders", userToken, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("order list is admin only", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/orders", userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/orders", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("myorders returns own orders in list envelope", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/orders/myorders", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool `json:"success"`
			Count   *int `json:"count"`
			Data    []struct {
				User string `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Count, rec.Body.String())
		require.Equal(t, 1, *body.Count, rec.Body.String())
		assert.Equal(t, user.ID.Hex(), body.Data[0].User)
	})

	t.Run("deliver is admin only", func(t *testing.T) {
		var someOrder primitive.ObjectID
		for id := range env.orders.orders {
			someOrder = id
		}

		rec := env.do(t, http.MethodPut, "/api/orders/"+someOrder.Hex()+"/deliver", userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodPut, "/api/orders/"+someOrder.Hex()+"/deliver", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("delete is admin only", func(t *testing.T) {
		var someOrder primitive.ObjectID
		for id := range env.orders.orders {
			someOrder = id
		}

		rec := env.do(t, http.MethodDelete, "/api/orders/"+someOrder.Hex(), userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodDelete, "/api/orders/"+someOrder.Hex(), adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestRouter_AuthRoutes(t *testing.T) {
	env := newTestEnv(t)

	register := map[string]interface{}{
		"name":     "Jane",
		"email":    "jane@fieldworks.dev",
		"password": "secret123",
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Data.Token, "expected token in registration response")

	t.Run("duplicate email is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", register)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login with wrong password is 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"email":    "jane@fieldworks.dev",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me returns the registered user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/auth/me", session.Data.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, session.Data.User.ID, body.Data.ID)
		assert.Equal(t, "jane@fieldworks.dev", body.Data.Email)
	})
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WeatherUnavailable(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/weather/Nairobi", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrWeatherUnavailable.Error(), body.Message)
}
