package model

// ログイン済みの状態。tokenは不透明な文字列として扱う。
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
