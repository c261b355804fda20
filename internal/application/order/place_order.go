package order

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/onlinebookstore/internal/domain/cart"
	"github.com/xiebiao/onlinebookstore/internal/domain/order"
	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
	"github.com/xiebiao/onlinebookstore/pkg/tracing"
)

// Transactor 事务执行器(mysql.TxManager实现)
// fn返回error时整个事务回滚,事务句柄通过txCtx传递给仓储
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// PlaceOrderUseCase 下单用例
// 把购物车快照成订单并清空购物车,三步在同一个事务中完成
type PlaceOrderUseCase struct {
	orderRepo   order.Repository
	cartStore   cart.Store
	cartService cart.Service
	txManager   Transactor
	publisher   order.EventPublisher
	now         func() time.Time
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	orderRepo order.Repository,
	cartStore cart.Store,
	cartService cart.Service,
	txManager Transactor,
	publisher order.EventPublisher,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:   orderRepo,
		cartStore:   cartStore,
		cartService: cartService,
		txManager:   txManager,
		publisher:   publisher,
		now:         time.Now,
	}
}

// PlaceOrderRequest 下单请求DTO
type PlaceOrderRequest struct {
	UserID          uint   // 从JWT中提取
	ShippingAddress string // 收货地址
}

// Execute 执行下单
//
// 流程(全部在一个事务内):
//  1. SELECT ... FOR UPDATE 锁定购物车行,同时读出明细及当前图书单价
//  2. 每条购物车明细生成一条订单明细,单价取当前图书价格
//  3. 合计金额 = Σ 数量 × 单价
//  4. 持久化订单(PENDING)
//  5. 清空购物车
//
// 并发:同一用户并发加购时,cart_items的外键检查会等待购物车行锁释放,
// 新明细落在清空后的购物车中,不会丢失也不会被计入本订单
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*OrderDTO, error) {
	ctx, span := tracing.StartSpan(ctx, "PlaceOrder", attribute.Int64("user_id", int64(req.UserID)))
	defer span.End()

	start := uc.now()
	log := logger.FromContext(ctx).WithField("user_id", req.UserID)

	var placed *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定购物车
		c, err := uc.cartStore.LockByUserID(txCtx, req.UserID)
		if err != nil {
			return err
		}

		// 步骤2-3:快照
		o, err := order.NewFromCart(c, req.ShippingAddress, uc.now())
		if err != nil {
			return err
		}

		// 步骤4:持久化订单及明细
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// 步骤5:清空购物车
		if err := uc.cartService.Clear(txCtx, c); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		err = apperrors.AsTransactionFailed(err)
		tracing.RecordError(span, err)
		metrics.IncCounter(metrics.OrdersFailedTotal)
		log.WithError(err).Warn("下单失败,事务已回滚")
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersPlacedTotal)
	metrics.ObserveHistogram(metrics.OrderPlacementDuration, uc.now().Sub(start).Seconds())
	span.SetAttributes(attribute.Int64("order_id", int64(placed.ID)))
	log.WithFields(logrus.Fields{
		"order_id": placed.ID,
		"order_no": placed.OrderNo,
		"total":    placed.Total.StringFixed(2),
	}).Info("下单成功")

	// 事务提交后发布事件,失败只记录日志
	if err := uc.publisher.Publish(ctx, order.NewPlacedEvent(placed)); err != nil {
		log.WithError(err).WithField("order_id", placed.ID).Warn("发布下单事件失败")
	}

	return toOrderDTO(placed), nil
}
