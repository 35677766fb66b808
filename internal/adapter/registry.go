package adapter

import (
	"fmt"
	"sort"

	"github.com/bagel786/TickTracker2.0/internal/config"
	"github.com/bagel786/TickTracker2.0/internal/interfaces"
	"github.com/bagel786/TickTracker2.0/internal/model"

	"github.com/sirupsen/logrus"
)

// SourceRegistry 按配置初始化的数据源适配器实例表
type SourceRegistry struct {
	cfg    *config.Config
	logger *logrus.Logger
	// 数据源类型→适配器实例（已包裹熔断器）
	adapters map[model.SourceType]interfaces.SourceAdapter
	order    []model.SourceType
}

func NewSourceRegistry(cfg *config.Config, logger *logrus.Logger) *SourceRegistry {
	r := &SourceRegistry{
		cfg:      cfg,
		logger:   logger,
		adapters: make(map[model.SourceType]interfaces.SourceAdapter),
	}
	r.initAdaptersFromFactories()
	return r
}

// initAdaptersFromFactories 遍历配置中的数据源，匹配工厂函数创建实例
func (r *SourceRegistry) initAdaptersFromFactories() {
	r.logger.WithField("factory_sources", ListFactories()).Info("adapter包中已注册的工厂函数")

	names := make([]string, 0, len(r.cfg.Sources))
	for name := range r.cfg.Sources {
		names = append(names, name)
	}
	// 固定顺序，合并结果与配置遍历顺序无关
	sort.Strings(names)

	for _, name := range names {
		sourceType := model.SourceType(name)
		if !r.cfg.Search.SourceEnabled(name) {
			r.logger.WithField("source", sourceType).Info("数据源未启用，跳过")
			continue
		}

		factory, ok := GetFactory(sourceType)
		if !ok {
			r.logger.WithField("source", sourceType).Error("未找到对应的工厂函数（init未注册？）")
			continue
		}

		sourceCfg := r.cfg.Sources[name]
		adapterIns := factory(&sourceCfg, r.logger)
		if adapterIns == nil {
			r.logger.WithField("source", sourceType).Error("工厂函数返回nil适配器实例")
			continue
		}

		if adapterIns.GetName() != sourceType {
			r.logger.WithFields(logrus.Fields{
				"config_source":  sourceType,
				"adapter_source": adapterIns.GetName(),
			}).Error("适配器数据源类型与配置不匹配")
			continue
		}

		r.adapters[sourceType] = NewBreakerAdapter(adapterIns, r.logger)
		r.order = append(r.order, sourceType)
		r.logger.WithField("source", sourceType).Info("适配器实例初始化成功并加入注册表")
	}

	r.logger.WithField("instance_sources", len(r.adapters)).Info("最终初始化的适配器实例数量")
}

// Adapters 按固定顺序返回全部适配器实例
func (r *SourceRegistry) Adapters() []interfaces.SourceAdapter {
	list := make([]interfaces.SourceAdapter, 0, len(r.order))
	for _, s := range r.order {
		list = append(list, r.adapters[s])
	}
	return list
}

// ListRegisteredSources 获取所有已初始化的数据源
func (r *SourceRegistry) ListRegisteredSources() []model.SourceType {
	return append([]model.SourceType(nil), r.order...)
}

// GetAdapter 获取适配器实例
func (r *SourceRegistry) GetAdapter(source model.SourceType) (interfaces.SourceAdapter, error) {
	adapterIns, ok := r.adapters[source]
	if !ok {
		return nil, fmt.Errorf("数据源%s未初始化适配器实例（已初始化：%v）", source, r.order)
	}
	return adapterIns, nil
}

// GetSourceCount 已初始化实例的数据源数量
func (r *SourceRegistry) GetSourceCount() int {
	return len(r.adapters)
}
