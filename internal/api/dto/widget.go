package dto

// PositionDTO 悬浮球屏幕坐标，持久化为 {x,y}
type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerReq 指针事件：down / move / up
type PointerReq struct {
	Type string  `json:"type" binding:"required,oneof=down move up"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ResizeReq 视口尺寸变化
type ResizeReq struct {
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// TriggerReq 触发某个扇形按钮
type TriggerReq struct {
	Label string `json:"label" binding:"required"`
}

// ChipDTO 扇形按钮的派生几何位置（相对球心）
type ChipDTO struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// WidgetStateDTO 悬浮球状态
type WidgetStateDTO struct {
	Active   bool        `json:"active"`
	Dragging bool        `json:"dragging"`
	Position PositionDTO `json:"position"`
	Chips    []*ChipDTO  `json:"chips"`
}

// PointerResult 指针事件处理结果；Clicked 仅在 up 且未越过拖拽阈值时为真
type PointerResult struct {
	Clicked  bool        `json:"clicked"`
	Dragging bool        `json:"dragging"`
	Position PositionDTO `json:"position"`
}
