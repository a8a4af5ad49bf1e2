package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// 保存キーはフロント時代のlocalStorageの名前をそのまま使う
const (
	keyToken = "marketplace_auth_token"
	keyUser  = "marketplace_user_data"
)

// SessionManagerはtokenとユーザーの唯一の書き手。
// 状態はAnonymousかAuthenticated(token, user)の2つ。
// カートとは独立したライフサイクルで、ログイン・ログアウトでカートには触らない。
type SessionManager struct {
	mu    sync.Mutex
	store repository.StateStore
	auth  AuthGateway

	session *model.Session // nil = Anonymous
	subs    []func()       // セッション失効通知
}

// NewSessionManagerは構築時に保存済みセッションを復元する。
// 復元ではバックエンドに問い合わせない。失効したtokenは
// 最初の認証付き呼び出しの401で剥がれる。
func NewSessionManager(store repository.StateStore, auth AuthGateway) *SessionManager {
	m := &SessionManager{store: store, auth: auth}
	m.rehydrate()
	return m
}

// Loginは成功でAuthenticatedに遷移してtoken+userを永続化する。
func (m *SessionManager) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	sess, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &sess

	//永続化はベストエフォート（ログイン自体は成立している）
	userJSON, _ := json.Marshal(sess.User)
	_ = m.store.Save(keyToken, []byte(sess.Token))
	_ = m.store.Save(keyUser, userJSON)

	return sess, nil
}

// Logoutは無条件でAnonymousへ。既にAnonymousでも何も起きない。
// 永続化済みのtoken+userも消す。カートは対象外。
func (m *SessionManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// HandleUnauthorizedは認証付き呼び出しが401で返ったときの一本化された出口。
// Logoutと同じ効果に加えて、購読者へセッション失効を通知する。
// Anonymousで呼ばれたら何もしない（通知もしない）。
func (m *SessionManager) HandleUnauthorized() {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	m.reset()
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// 購読者がmanagerを触り直しても詰まらないようロック外で呼ぶ
	for _, fn := range subs {
		fn()
	}
}

// Subscribeはセッション失効通知の購読を登録する。
func (m *SessionManager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Tokenは現在の資格情報。Anonymousならfalse。ブロックしない。
func (m *SessionManager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", false
	}
	return m.session.Token, true
}

// CurrentUserはログイン中のユーザー。Anonymousならfalse。
func (m *SessionManager) CurrentUser() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return model.User{}, false
	}
	return m.session.User, true
}

// ロック保持前提
func (m *SessionManager) reset() {
	m.session = nil
	_ = m.store.Remove(keyToken)
	_ = m.store.Remove(keyUser)
}

// token+userが両方そろって形も妥当なときだけAuthenticatedで起動する。
// 片方欠け・壊れた保存値は無かったことにして掃除する。
func (m *SessionManager) rehydrate() {
	tokenB, errT := m.store.Load(keyToken)
	userB, errU := m.store.Load(keyUser)
	if errT != nil || errU != nil {
		m.reset()
		return
	}

	token := strings.TrimSpace(string(tokenB))

	var user model.User
	if token == "" || json.Unmarshal(userB, &user) != nil || !validUser(user) {
		m.reset()
		return
	}

	m.session = &model.Session{Token: token, User: user}
}

func validUser(u model.User) bool {
	return u.ID > 0 && u.Email != "" && u.Role.Valid()
}
