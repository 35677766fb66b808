// internal/adapter/adapter.go
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bagel786/TickTracker2.0/internal/config"
	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/sirupsen/logrus"
)

// Factory 数据源适配器工厂函数签名
// 入参：数据源配置、日志实例
// 出参：实现 SourceAdapter 接口的适配器实例
type Factory func(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter

// ========== 全局工厂函数注册表（各数据源子包 init 时注册） ==========
var (
	factoryMu       sync.RWMutex
	factoryRegistry = make(map[model.SourceType]Factory)
)

// Register 供适配器 init 函数调用，注册工厂函数
func Register(source model.SourceType, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("数据源%s的工厂函数不能为nil", source))
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factoryRegistry[source]; exists {
		logrus.Warnf("数据源%s的适配器已注册，将覆盖原有实现", source)
	}
	factoryRegistry[source] = factory
	logrus.Debugf("数据源%s工厂函数注册成功", source)
}

// GetFactory 获取指定数据源的工厂函数
func GetFactory(source model.SourceType) (Factory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	factory, ok := factoryRegistry[source]
	return factory, ok
}

// ListFactories 列出所有已注册工厂函数的数据源（按名称排序）
func ListFactories() []model.SourceType {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	sources := make([]model.SourceType, 0, len(factoryRegistry))
	for s := range factoryRegistry {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
