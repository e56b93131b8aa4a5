package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ============================================================================
// Redis 分布式锁
// ============================================================================
//
// 【为什么支付要加锁？】
//
// 场景：同一笔订单被并发发起两次支付（网络抖动导致重复提交）
//
// 没有锁的话：
//   请求1: 读到 status=created -> 调网关 -> 写 paid
//   请求2: 读到 status=created -> 又调了一次网关！买家可能被扣两次款
//
// 加锁之后，同一订单的支付请求串行化；再叠加数据库层
// "status=created 才允许更新" 的条件写，即使锁过期也不会覆盖已支付订单。
//
// 加锁：SET key value NX EX timeout（NX 保证互斥，EX 防死锁）
// 释放：Lua 脚本先校验 value 再删除，避免误删别人的锁
//
// ============================================================================

var (
	ErrLockFailed = errors.New("获取分布式锁失败")
)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string        // 锁持有者标识，释放时校验
	expiration time.Duration
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
			// 继续重试
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
//
// Lua 脚本保证"校验 value + 删除"的原子性：
// 若自己的锁已过期且被别的请求接管，这里不会删掉对方的锁
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewOrderPayLock 创建支付锁（按订单维度）
//
// 按订单而不是按用户加锁：不同订单可以并发支付，
// 同一订单的重复提交才需要互斥
func NewOrderPayLock(client *redis.Client, orderNo, holder string, ttl time.Duration) *DistributedLock {
	key := fmt.Sprintf("pay:lock:order:%s", orderNo)
	return NewDistributedLock(client, key, holder, ttl)
}
