package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// =====================
// Mock: AuthGateway
// =====================

type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func testSession() model.Session {
	return model.Session{
		Token: "tok-123",
		User:  model.User{ID: 7, Email: "shopper@example.com", Role: model.RoleCustomer},
	}
}

func TestSessionManager_LoginPersistsSession(t *testing.T) {
	store := newMemStore()
	gw := new(MockAuthGateway)
	gw.On("Login", mock.Anything, "shopper@example.com", "pw1234").Return(testSession(), nil)

	m := NewSessionManager(store, gw)

	sess, err := m.Login(context.Background(), "shopper@example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)

	tok, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", tok)

	//token+userが永続化されている
	b, err := store.Load("marketplace_auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", string(b))
	_, err = store.Load("marketplace_user_data")
	require.NoError(t, err)

	gw.AssertExpectations(t)
}

func TestSessionManager_LoginValidatesInput(t *testing.T) {
	gw := new(MockAuthGateway)
	m := NewSessionManager(newMemStore(), gw)

	_, err := m.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = m.Login(context.Background(), "a@b.c", "")
	assert.ErrorIs(t, err, ErrValidation)

	//入力不備ではバックエンドを呼ばない
	gw.AssertNotCalled(t, "Login")
}

func TestSessionManager_LoginFailureStaysAnonymous(t *testing.T) {
	gw := new(MockAuthGateway)
	gw.On("Login", mock.Anything, "a@b.c", "wrong").Return(model.Session{}, ErrInvalidCredentials)

	m := NewSessionManager(newMemStore(), gw)

	_, err := m.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := m.Token()
	assert.False(t, ok)
}

func TestSessionManager_LogoutClearsPersistedState(t *testing.T) {
	store := newMemStore()
	gw := new(MockAuthGateway)
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(testSession(), nil)

	m := NewSessionManager(store, gw)
	_, err := m.Login(context.Background(), "shopper@example.com", "pw1234")
	require.NoError(t, err)

	m.Logout()

	_, ok := m.Token()
	assert.False(t, ok)
	_, err = store.Load("marketplace_auth_token")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Load("marketplace_user_data")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	//Anonymousでもう一度呼んでも何も起きない
	m.Logout()
}

func TestSessionManager_LogoutLeavesCartAlone(t *testing.T) {
	store := newMemStore()
	gw := new(MockAuthGateway)
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(testSession(), nil)

	m := NewSessionManager(store, gw)
	cart := NewCartStore(store)
	require.NoError(t, cart.Add(fakeProduct(1, "10.00"), 2))

	_, err := m.Login(context.Background(), "shopper@example.com", "pw1234")
	require.NoError(t, err)
	m.Logout()

	//ログイン・ログアウトとカートは独立したライフサイクル
	assert.Equal(t, int64(2), cart.QuantityOf(1))
	reloaded := NewCartStore(store)
	assert.Equal(t, int64(2), reloaded.QuantityOf(1))
}

func TestSessionManager_HandleUnauthorizedNotifiesOnce(t *testing.T) {
	store := newMemStore()
	gw := new(MockAuthGateway)
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(testSession(), nil)

	m := NewSessionManager(store, gw)

	notified := 0
	m.Subscribe(func() { notified++ })

	//Anonymousではno-op（通知もなし）
	m.HandleUnauthorized()
	assert.Equal(t, 0, notified)

	_, err := m.Login(context.Background(), "shopper@example.com", "pw1234")
	require.NoError(t, err)

	m.HandleUnauthorized()
	assert.Equal(t, 1, notified)
	_, ok := m.Token()
	assert.False(t, ok)

	//連打しても2回目以降はno-op
	m.HandleUnauthorized()
	assert.Equal(t, 1, notified)
}

func TestSessionManager_RehydratesFromStore(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save("marketplace_auth_token", []byte("tok-123")))
	require.NoError(t, store.Save("marketplace_user_data",
		[]byte(`{"id":7,"email":"shopper@example.com","role":"customer"}`)))

	m := NewSessionManager(store, new(MockAuthGateway))

	tok, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", tok)

	u, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "shopper@example.com", u.Email)
	assert.Equal(t, model.RoleCustomer, u.Role)
}

func TestSessionManager_RehydrateRequiresBothKeys(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save("marketplace_auth_token", []byte("tok-123")))

	m := NewSessionManager(store, new(MockAuthGateway))

	_, ok := m.Token()
	assert.False(t, ok)
	//使えない片割れも掃除される
	_, err := store.Load("marketplace_auth_token")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionManager_RehydrateDropsCorruptUser(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save("marketplace_auth_token", []byte("tok-123")))
	require.NoError(t, store.Save("marketplace_user_data", []byte("{broken")))

	m := NewSessionManager(store, new(MockAuthGateway))

	_, ok := m.Token()
	assert.False(t, ok)
	_, err := store.Load("marketplace_user_data")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionManager_RehydrateRejectsBadUserShape(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save("marketplace_auth_token", []byte("tok-123")))
	//roleが未知の値
	require.NoError(t, store.Save("marketplace_user_data",
		[]byte(`{"id":7,"email":"shopper@example.com","role":"superuser"}`)))

	m := NewSessionManager(store, new(MockAuthGateway))

	_, ok := m.Token()
	assert.False(t, ok)
}
