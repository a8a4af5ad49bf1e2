package repository

import "errors"

// キーが存在しない（または読めず破棄された）
var ErrNotFound = errors.New("not found")

// ページリロード（プロセス再起動）をまたいで残るローカルKVストアの約束。
// 書き込みは呼び出し元から見て同期。耐久性は「次のLoadまでベストエフォート」。
type StateStore interface {
	// Loadは保存済みの生バイト列を返す。無ければErrNotFound。
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	// Removeは存在しないキーでもエラーにしない。
	Remove(key string) error
}
