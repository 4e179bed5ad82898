// Package shoprec 是一个面向电商场景的商品推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - 协同过滤: 用户×商品亲和矩阵 + 物品余弦相似度 + k-NN 打分，快照原子发布
// - 兜底优先: 个性化不可用时自动落到热门/类目兜底，冷启动不报错
//
// 入口通常是 recommend.Recommender；需要自定义编排时可直接使用
// pipeline + recall/filter/rerank 各包的 Node。
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
