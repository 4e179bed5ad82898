package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的策略过滤器，表达式命中即过滤。
// 规则可以来自 YAML 配置，无需改代码就能上线业务屏蔽策略。
//
// 示例：
//   - `item.score <= 0.0` → 过滤掉没有正预测分的候选
//   - `item.meta.category == "adult"` → 按类目屏蔽
//   - `label.source == "catalog_pad"` → 屏蔽纯补位结果
type RuleFilter struct {
	// Expr 是 CEL 表达式；空表达式不过滤任何商品
	Expr string
}

// NewRuleFilter 创建一个规则过滤器。
func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || f.Expr == "" {
		return false, nil
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
