package usecase

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

const keyCart = "marketplace_cart_items"

// CartStoreは商品→数量の唯一の持ち主。認証状態からは独立していて、
// ログイン・ログアウト・セッション失効では消えない。消えるのは
// Clear（明示操作）とチェックアウト成功のときだけ。
// 変更のたびにカート全体を即保存する（量が小さいので間引かない）。
type CartStore struct {
	mu    sync.Mutex
	store repository.StateStore
	lines []model.CartLine // 挿入順を保つ。productIDごとに1行。
}

// NewCartStoreは保存済みカートがあれば復元する。
// 壊れた保存値は空カート扱いにして掃除する。
func NewCartStore(store repository.StateStore) *CartStore {
	c := &CartStore{store: store}

	b, err := store.Load(keyCart)
	if err != nil {
		return c
	}

	var lines []model.CartLine
	if json.Unmarshal(b, &lines) != nil {
		_ = store.Remove(keyCart)
		return c
	}

	// 復元時も不変条件（数量1以上、productID重複なし）を守らせる
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		c.lines = append(c.lines, l)
	}
	return c
}

// Addは同じ商品なら数量を加算、なければ行を追加する。
// 在庫上限はここでは見ない（呼び出し側がProductスナップショットで判断する）。
func (c *CartStore) Add(p model.Product, qty int64) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			return c.save()
		}
	}

	c.lines = append(c.lines, model.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	})
	return c.save()
}

// Removeは数量を1減らし、0になったら行ごと消す。
// 行がなければ何もしない。
func (c *CartStore) Remove(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return c.save()
	}
	return nil
}

// DeleteLineは数量に関係なく行を丸ごと消す。
// （旧フロントのremoveItemはこちらの意味だった。Removeと混ぜないこと。）
func (c *CartStore) DeleteLine(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.save()
		}
	}
	return nil
}

// Clearは無条件で空にする。
func (c *CartStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.save()
}

// Totalは毎回Σ price×quantityを計算し直す（キャッシュしない）。
func (c *CartStore) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// QuantityOfは行がなければ0。
func (c *CartStore) QuantityOf(productID int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Linesは現時点のスナップショットのコピーを返す。
// 返した後のカート変更はスナップショットに影響しない。
func (c *CartStore) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// ロック保持前提。カート全体をそのまま保存する。
func (c *CartStore) save() error {
	b, err := json.Marshal(c.lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Save(keyCart, b); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
