package interfaces

import (
	"context"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

// PricePredictor 外部价格模型能力：特征 → log1p 尺度的预测价格
// 调用方负责 expm1 还原，并在出错时回退为纯启发式
type PricePredictor interface {
	Predict(ctx context.Context, features model.PriceFeatures) (float64, error)
}
