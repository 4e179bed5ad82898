package engine

import (
	"context"
	"log/slog"
	"sync"
)

// Trainer 把“结账/点赞/点踩后重训”变成显式的异步任务提交。
//
// 约束：
//   - Submit 永不阻塞、永不向业务动作传播错误，下单/点赞必须照常提交
//   - 训练失败只记日志，保证失败可观测而不是被静默吞掉
//   - 短时间内的重复提交合并成一次训练（队列容量为 1）
type Trainer struct {
	model  *Model
	logger *slog.Logger

	pending chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewTrainer 创建并启动一个后台训练器。logger 为 nil 时使用 slog.Default。
func NewTrainer(model *Model, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Trainer{
		model:   model,
		logger:  logger,
		pending: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

// Submit 提交一次重训请求。永不阻塞：已有待处理请求时直接合并。
func (t *Trainer) Submit() {
	select {
	case t.pending <- struct{}{}:
	default:
	}
}

// Close 停止后台训练器，等待在跑的训练结束。
func (t *Trainer) Close() {
	t.once.Do(func() {
		close(t.stop)
	})
	t.wg.Wait()
}

func (t *Trainer) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stop:
			return
		case <-t.pending:
			if err := t.model.Train(context.Background()); err != nil {
				t.logger.Error("model retrain failed",
					slog.String("catalog", t.model.catalog.Name()),
					slog.Any("err", err),
				)
			}
		}
	}
}
