package usecase

import "errors"

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	//403 停止済みアカウント
	ErrAccountSuspended = errors.New("account suspended")
	//401 認証切れ・資格情報なし
	ErrUnauthorized = errors.New("unauthorized")
	//空のカートはバックエンドに投げない
	ErrEmptyCart = errors.New("empty cart")
	//通信失敗・タイムアウト・5xx。リトライは呼び出し側でもしない
	ErrNetwork = errors.New("network error")
)
