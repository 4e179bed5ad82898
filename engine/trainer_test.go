package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer 让测试在训练协程写日志的同时安全读取。
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestTrainerSubmit(t *testing.T) {
	m := NewModel(testCatalog())
	tr := NewTrainer(m, nil)
	defer tr.Close()

	tr.Submit()
	waitFor(t, 2*time.Second, func() bool {
		return m.Current() != nil
	})

	if m.Current().Empty() {
		t.Error("background training produced an empty snapshot")
	}
}

func TestTrainerSubmitNeverBlocks(t *testing.T) {
	m := NewModel(testCatalog())
	tr := NewTrainer(m, nil)
	defer tr.Close()

	done := make(chan struct{})
	go func() {
		// 远超队列容量的连续提交必须立即返回（合并而不是排队）
		for i := 0; i < 1000; i++ {
			tr.Submit()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked")
	}
}

func TestTrainerLogsFailure(t *testing.T) {
	catalog := testCatalog()
	catalog.listErr = errors.New("catalog down")

	buf := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	m := NewModel(catalog)
	tr := NewTrainer(m, logger)
	defer tr.Close()

	tr.Submit()
	waitFor(t, 2*time.Second, func() bool {
		return strings.Contains(buf.String(), "model retrain failed")
	})

	if m.Current() != nil {
		t.Error("failed training must not publish a snapshot")
	}
	if !strings.Contains(buf.String(), "catalog down") {
		t.Errorf("log should carry the training error, got: %s", buf.String())
	}
}

func TestTrainerCloseIdempotent(t *testing.T) {
	tr := NewTrainer(NewModel(testCatalog()), nil)
	tr.Close()
	tr.Close()
}
