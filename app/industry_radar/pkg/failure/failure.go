// Package failure 定义流水线各边界上的错误分类。
//
// 每个外部调用边界都是隔离边界：错误在产生它的阶段被记录并降级为空值或占位文本，
// 只有持久化失败会返回给 Engine.Run 的调用方。
package failure

import (
	"fmt"
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	// ReasonCredentialMissing 未配置 API Key，总是触发对应的回退路径
	ReasonCredentialMissing = "CREDENTIAL_MISSING"
	// ReasonUpstream 搜索、抓取、社交或 LLM 的网络/API 错误
	ReasonUpstream = "UPSTREAM_CALL_FAILURE"
	// ReasonOracle LLM 调用失败，与空输出区分
	ReasonOracle = "ORACLE_FAILURE"
	// ReasonPersistence 报告写入失败
	ReasonPersistence = "PERSISTENCE_FAILURE"
)

// CredentialMissing 缺少凭证
func CredentialMissing(what string) *errors.Error {
	return errors.New(http.StatusPreconditionFailed, ReasonCredentialMissing, what+" credentials not configured")
}

// Upstream 上游调用失败
func Upstream(cause error, format string, args ...any) *errors.Error {
	return errors.New(http.StatusBadGateway, ReasonUpstream, fmt.Sprintf(format, args...)).WithCause(cause)
}

// Oracle LLM 调用失败
func Oracle(cause error, format string, args ...any) *errors.Error {
	return errors.New(http.StatusBadGateway, ReasonOracle, fmt.Sprintf(format, args...)).WithCause(cause)
}

// Persistence 持久化失败
func Persistence(cause error, format string, args ...any) *errors.Error {
	return errors.New(http.StatusInternalServerError, ReasonPersistence, fmt.Sprintf(format, args...)).WithCause(cause)
}

// Is 判断 err 是否属于给定分类
func Is(err error, reason string) bool {
	if err == nil {
		return false
	}
	return errors.Reason(err) == reason
}
