package service

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	products  map[primitive.ObjectID]*domain.Product
	insertErr error
	findErr   error
	listErr   error
	updateErr error
	deleteErr error
	updates   int
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (m *MockProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	return nil
}

func (m *MockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockProductRepository) List(ctx context.Context, opts *query.Options) ([]*domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.Product
	for _, p := range m.products {
		result = append(result, p)
	}
	return result, nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	if m.listErr != nil {
		return 0, m.listErr
	}
	return int64(len(m.products)), nil
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	copied := *p
	m.products[p.ID] = &copied
	m.updates++
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	users     map[primitive.ObjectID]*domain.User
	insertErr error
	findErr   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *MockUserRepository) Insert(ctx context.Context, u *domain.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	orders    map[primitive.ObjectID]*domain.Order
	insertErr error
	findErr   error
	updateErr error
	deleteErr error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *MockOrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*domain.Order
	for _, o := range m.orders {
		result = append(result, o)
	}
	return result, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, o *domain.Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	copied := *o
	m.orders[o.ID] = &copied
	return nil
}

func (m *MockOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

// MockKnowledgeBaseRepository is a mock implementation of
// repository.KnowledgeBaseRepository.
type MockKnowledgeBaseRepository struct {
	items     map[primitive.ObjectID]*domain.KnowledgeBaseItem
	searched  []string
	insertErr error
	findErr   error
	searchErr error
	updateErr error
	deleteErr error
}

func NewMockKnowledgeBaseRepository() *MockKnowledgeBaseRepository {
	return &MockKnowledgeBaseRepository{items: make(map[primitive.ObjectID]*domain.KnowledgeBaseItem)}
}

func (m *MockKnowledgeBaseRepository) Insert(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockKnowledgeBaseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.KnowledgeBaseItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *MockKnowledgeBaseRepository) List(ctx context.Context, opts *query.Options) ([]*domain.KnowledgeBaseItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*domain.KnowledgeBaseItem
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockKnowledgeBaseRepository) Count(ctx context.Context) (int64, error) {
	if m.findErr != nil {
		return 0, m.findErr
	}
	return int64(len(m.items)), nil
}

func (m *MockKnowledgeBaseRepository) Search(ctx context.Context, term string) ([]*domain.KnowledgeBaseItem, error) {
	m.searched = append(m.searched, term)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var result []*domain.KnowledgeBaseItem
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockKnowledgeBaseRepository) Update(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.items[item.ID]; !ok {
		return domain.ErrArticleNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *MockKnowledgeBaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(m.items, id)
	return nil
}

// MockStorageBackend is a mock implementation of storage.Backend.
type MockStorageBackend struct {
	stored   []string
	storeErr error
}

func (m *MockStorageBackend) Store(ctx context.Context, r io.Reader, name string, size int64) (string, error) {
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.stored = append(m.stored, name)
	return fmt.Sprintf("/uploads/%s", name), nil
}

func (m *MockStorageBackend) Delete(ctx context.Context, path string) error {
	return nil
}
