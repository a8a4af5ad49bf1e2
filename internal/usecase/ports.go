package usecase

import (
	"context"

	"storefront/internal/domain/model"
)

// ログインAPIを叩く約束。実装はinternal/apiのGateway。
// 返すエラーはこのパッケージのsentinel（ErrInvalidCredentials等）に落とすこと。
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
}

// 注文APIを叩く約束。資格情報の付与はゲートウェイ側の責務。
type OrderGateway interface {
	SubmitOrder(ctx context.Context, items []model.OrderItem) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
}
