package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/onlinebookstore/internal/domain/book"
	"github.com/xiebiao/onlinebookstore/pkg/logger"
	"github.com/xiebiao/onlinebookstore/pkg/metrics"
)

// CachedBookRepository 图书详情缓存(Cache-Aside)
//
//	读:先查缓存,未命中再查数据库并回填
//	写:先写数据库,成功后删除缓存
//
// 只缓存FindByID;列表和检索结果直接查库。
// Redis不可用时退化为直接访问数据库,不影响业务。
type CachedBookRepository struct {
	book.Repository

	client *redis.Client
	ttl    time.Duration
}

// NewCachedBookRepository 用缓存包装图书仓储
func NewCachedBookRepository(repo book.Repository, client *redis.Client, ttl time.Duration) *CachedBookRepository {
	return &CachedBookRepository{Repository: repo, client: client, ttl: ttl}
}

func bookKey(id uint) string {
	return fmt.Sprintf("book:detail:%d", id)
}

// FindByID 缓存命中直接返回
func (r *CachedBookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	key := bookKey(id)

	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var b book.Book
		if err := json.Unmarshal(val, &b); err == nil {
			metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "hit"})
			return &b, nil
		}
		// 反序列化失败说明格式已变化,当作未命中
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "error"})
	case errors.Is(err, redis.Nil):
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "miss"})
	default:
		metrics.IncCounterVec(metrics.BookCacheRequestsTotal, map[string]string{"result": "error"})
		logger.FromContext(ctx).WithError(err).WithField("book_id", id).Warn("读取图书缓存失败")
	}

	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			logger.FromContext(ctx).WithError(err).WithField("book_id", id).Warn("写入图书缓存失败")
		}
	}
	return b, nil
}

// Update 更新后删除缓存
func (r *CachedBookRepository) Update(ctx context.Context, b *book.Book) error {
	if err := r.Repository.Update(ctx, b); err != nil {
		return err
	}
	r.evict(ctx, b.ID)
	return nil
}

// Delete 删除后删除缓存
func (r *CachedBookRepository) Delete(ctx context.Context, id uint) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedBookRepository) evict(ctx context.Context, id uint) {
	if err := r.client.Del(ctx, bookKey(id)).Err(); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("book_id", id).Warn("删除图书缓存失败")
	}
}
