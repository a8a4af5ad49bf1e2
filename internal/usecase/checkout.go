package usecase

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"
)

// CheckoutCoordinatorはカートのスナップショットを注文に変換する。
// 価格はクライアントからは送らない（正価はバックエンドが再計算する）。
// リトライはしない。二重送信の抑止は呼び出し側とバックエンドの責務。
type CheckoutCoordinator struct {
	cart   *CartStore
	orders OrderGateway
}

func NewCheckoutCoordinator(cart *CartStore, orders OrderGateway) *CheckoutCoordinator {
	return &CheckoutCoordinator{cart: cart, orders: orders}
}

// SubmitOrderは呼び出し時点のカートスナップショットを送信する。
// 送信中にカートが変更されても、送られる内容には混ざらない。
//   - 空カート: バックエンドを呼ばずにErrEmptyCart
//   - 成功: カートをクリアして注文を返す
//   - 失敗: カートはそのまま（401のセッション破棄はゲートウェイ経由で一本化済み）
func (co *CheckoutCoordinator) SubmitOrder(ctx context.Context) (model.Order, error) {
	lines := co.cart.Lines()
	if len(lines) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	order, err := co.orders.SubmitOrder(ctx, items)
	if err != nil {
		return model.Order{}, err
	}
	if order.ID == "" {
		return model.Order{}, fmt.Errorf("order response missing id")
	}

	// 注文はもう確定しているので、クリアの保存失敗で注文を失敗扱いにはしない
	_ = co.cart.Clear()

	return order, nil
}

// ListOrdersはログイン中ユーザーの注文一覧。
// 未ログインでバックエンドが認証必須ならErrUnauthorizedで返る。
func (co *CheckoutCoordinator) ListOrders(ctx context.Context) ([]model.Order, error) {
	return co.orders.ListOrders(ctx)
}
