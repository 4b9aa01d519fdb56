// Package fallback 提供“先试主路径，失败再试备用路径”的统一组合器。
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/failure"
	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/logger"
)

// Step 回退链中的一个候选实现
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Require ok 为 false 时该步骤直接返回 CredentialMissing，不会执行
func Require[T any](ok bool, what string, step Step[T]) Step[T] {
	if ok {
		return step
	}
	return Step[T]{
		Name: step.Name,
		Run: func(context.Context) (T, error) {
			var zero T
			return zero, failure.CredentialMissing(what)
		},
	}
}

// Chain 依次执行各步骤，返回第一个成功的结果及其步骤名。
// 全部失败时返回合并后的错误。ctx 取消时立即停止。
func Chain[T any](ctx context.Context, steps ...Step[T]) (T, string, error) {
	var zero T
	var errs []error

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		v, err := step.Run(ctx)
		if err == nil {
			return v, step.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))

		if i < len(steps)-1 {
			if failure.Is(err, failure.ReasonCredentialMissing) {
				logger.Log.Warnf("[%s] 未配置凭证，使用备用方式 [%s]", step.Name, steps[i+1].Name)
			} else {
				logger.Log.Warnf("[%s] 失败，使用备用方式 [%s]: %v", step.Name, steps[i+1].Name, err)
			}
		}
	}

	if len(errs) == 0 {
		return zero, "", errors.New("fallback: no steps")
	}
	return zero, "", errors.Join(errs...)
}
