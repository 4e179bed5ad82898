package config

import (
	"fmt"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// DefaultFactory 返回一个包含所有内置 Node 的工厂。
// 召回/过滤节点需要运行时依赖（模型快照、目录存储），
// 所以工厂按依赖参数化构建，而不是 init 注册零依赖 builder。
//
// 配合 pipeline.LoadFromYAML 使用：
//
//	cfg, _ := pipeline.LoadFromYAML("pipeline.yaml")
//	p, _ := cfg.BuildPipeline(config.DefaultFactory(model, catalog))
func DefaultFactory(model *engine.Model, catalog core.CatalogStore) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Recall Nodes
	factory.Register("recall.knn", func(_ map[string]interface{}) (pipeline.Node, error) {
		if model == nil {
			return nil, fmt.Errorf("recall.knn requires a model")
		}
		return &recall.KNNRecall{Model: model}, nil
	})
	factory.Register("recall.hot", func(_ map[string]interface{}) (pipeline.Node, error) {
		if catalog == nil {
			return nil, fmt.Errorf("recall.hot requires a catalog store")
		}
		return &recall.Hot{Catalog: catalog}, nil
	})

	// 注册 Filter Nodes
	factory.Register("filter", buildFilterNode(model))

	// 注册 ReRank Nodes
	factory.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return factory
}

func buildFilterNode(model *engine.Model) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		filtersConfig, ok := cfg["filters"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}

		filters := make([]filter.Filter, 0, len(filtersConfig))
		for _, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]interface{})
			if !ok {
				continue
			}
			filterType := conv.ConfigGet[string](filterMap, "type", "")
			switch filterType {
			case "interacted":
				filters = append(filters, filter.NewInteractedFilter(model))

			case "rule":
				expr := conv.ConfigGet[string](filterMap, "expr", "")
				filters = append(filters, filter.NewRuleFilter(expr))

			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}

		return &filter.FilterNode{Filters: filters}, nil
	}
}
