package model

import "errors"

var (
	// ErrEventNotFound 事件不存在
	ErrEventNotFound = errors.New("event not found")
	// ErrSourceStatus 数据源返回非 2xx
	ErrSourceStatus = errors.New("source returned non-success status")
	// ErrPredictorUnavailable 价格模型未加载
	ErrPredictorUnavailable = errors.New("price predictor unavailable")
)
