package interfaces

import (
	"context"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

// SourceAdapter 所有数据源必须实现的核心接口
// 整体失败（网络错误、非 2xx、响应体无法解析、超时）以 error 返回，由合并服务降级为空结果；
// 单条记录解析失败由适配器自行跳过
type SourceAdapter interface {
	GetName() model.SourceType                                                             // 数据源名称
	FetchEvents(ctx context.Context, q model.SearchQuery) ([]*model.CanonicalEvent, error) // 拉取并归一化事件
}
