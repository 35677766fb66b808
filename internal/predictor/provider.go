package predictor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Provider 持有当前生效的价格模型；启动时加载一次，之后按需重新加载
type Provider struct {
	path   string
	logger *logrus.Logger

	current atomic.Pointer[LinearModel]
	// 串行化加载，Predict 不加锁
	loadMu sync.Mutex
}

func NewProvider(path string, logger *logrus.Logger) *Provider {
	return &Provider{path: path, logger: logger}
}

// Load 读取模型文件；失败时保留原有模型
func (p *Provider) Load() error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	m, err := readModel(p.path)
	if err != nil {
		return err
	}
	p.current.Store(m)
	p.logger.WithFields(logrus.Fields{
		"path":        p.path,
		"version":     m.Version,
		"numeric":     len(m.Numeric),
		"categorical": len(m.Categorical),
	}).Info("价格模型加载成功")
	return nil
}

// Reload 重新读取模型文件
func (p *Provider) Reload() error {
	if err := p.Load(); err != nil {
		p.logger.WithError(err).WithField("path", p.path).Warn("价格模型重新加载失败，继续使用原模型")
		return err
	}
	return nil
}

// Loaded 是否已有可用模型
func (p *Provider) Loaded() bool {
	return p.current.Load() != nil
}

// Version 当前模型版本，未加载时为空
func (p *Provider) Version() string {
	if m := p.current.Load(); m != nil {
		return m.Version
	}
	return ""
}

// Predict 实现 PricePredictor，返回 log1p 价格
func (p *Provider) Predict(ctx context.Context, features model.PriceFeatures) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := p.current.Load()
	if m == nil {
		return 0, model.ErrPredictorUnavailable
	}
	return m.Predict(features), nil
}

func readModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取模型文件失败: %w", err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析模型文件失败: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("模型文件校验失败: %w", err)
	}
	return &m, nil
}
