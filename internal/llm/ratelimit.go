package llm

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// tokenBucket 令牌桶限流器
type tokenBucket struct {
	rate           float64 // 每秒生成的令牌数
	capacity       float64
	tokens         float64
	lastRefillTime time.Time
	mutex          sync.Mutex
}

func newTokenBucket(rpm int, capacity int) *tokenBucket {
	if capacity <= 0 {
		capacity = rpm / 2
		if capacity <= 0 {
			capacity = 1
		}
	}

	return &tokenBucket{
		rate:           float64(rpm) / 60.0,
		capacity:       float64(capacity),
		tokens:         float64(capacity),
		lastRefillTime: time.Now(),
	}
}

func (tb *tokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.lastRefillTime = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}

// wait 阻塞直到拿到一个令牌或上下文取消
func (tb *tokenBucket) wait(ctx context.Context) error {
	for {
		tb.mutex.Lock()
		tb.refill()

		if tb.tokens >= 1.0 {
			tb.tokens -= 1.0
			tb.mutex.Unlock()
			return nil
		}

		waitTime := time.Duration((1.0 - tb.tokens) / tb.rate * float64(time.Second))
		tb.mutex.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// RateLimitedChatModel 对聊天模型调用做限流和有限重试的代理
// 只有传输错误和限流状态码会触发重试；业务性的服务错误和格式异常立即返回。
type RateLimitedChatModel struct {
	original      model.BaseChatModel
	bucket        *tokenBucket
	retryWaitTime time.Duration
	maxRetries    int
}

// NewRateLimitedChatModel 创建限流代理，rpm为每分钟允许的请求数
func NewRateLimitedChatModel(original model.BaseChatModel, rpm int) *RateLimitedChatModel {
	return &RateLimitedChatModel{
		original:      original,
		bucket:        newTokenBucket(rpm, rpm/2),
		retryWaitTime: time.Second,
		maxRetries:    3,
	}
}

// WithRetryPolicy 设置重试间隔和最大重试次数
func (rl *RateLimitedChatModel) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedChatModel {
	rl.retryWaitTime = waitTime
	rl.maxRetries = maxRetries
	return rl
}

// Generate 实现 model.BaseChatModel 接口
func (rl *RateLimitedChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	var (
		resp *schema.Message
		err  error
	)

	for retry := 0; retry <= rl.maxRetries; retry++ {
		if waitErr := rl.bucket.wait(ctx); waitErr != nil {
			return nil, waitErr
		}

		resp, err = rl.original.Generate(ctx, messages, options...)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) || retry >= rl.maxRetries {
			return nil, err
		}

		// 指数退避
		backoff := rl.retryWaitTime * time.Duration(1<<uint(retry))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, err
}

// Stream 实现 model.BaseChatModel 接口，透传给底层模型
func (rl *RateLimitedChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := rl.bucket.wait(ctx); err != nil {
		return nil, err
	}
	return rl.original.Stream(ctx, messages, options...)
}

// isRetryable 传输错误和429限流可以重试，其余错误立即上抛
func isRetryable(err error) bool {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		if errors.Is(genErr.BaseErr, ErrTransport) {
			return true
		}
		return errors.Is(genErr.BaseErr, ErrService) && genErr.StatusCode == http.StatusTooManyRequests
	}
	return errors.Is(err, ErrTransport)
}
