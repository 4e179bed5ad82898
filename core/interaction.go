package core

import "time"

// InteractionType 是隐式反馈的行为类型。
type InteractionType string

const (
	InteractionView    InteractionType = "view"     // 浏览
	InteractionCartAdd InteractionType = "cart_add" // 加购
	InteractionLike    InteractionType = "like"     // 喜欢
	InteractionBuy     InteractionType = "purchase" // 购买
	InteractionDislike InteractionType = "dislike"  // 不喜欢
)

// Weight 返回行为对应的固定权重。
// 未知类型按浏览（1.0）处理，与历史数据兼容。
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView:
		return 1.0
	case InteractionCartAdd:
		return 3.0
	case InteractionLike:
		return 4.0
	case InteractionBuy:
		return 5.0
	case InteractionDislike:
		return -2.0
	default:
		return 1.0
	}
}

// Interaction 是一条用户-商品交互事件（追加式日志里的一行）。
type Interaction struct {
	UserID    int64           `json:"user_id"`
	ProductID int64           `json:"product_id"`
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}
