package service

import (
	"Skillmint/internal/api/config"
	"Skillmint/internal/api/dto"
	"Skillmint/internal/pkg/consts"
	"Skillmint/internal/pkg/singleton"
	"context"
	log "log/slog"
	"math"
	"sync"

	"github.com/pkg/errors"
)

// singletonMarker 悬浮球的哨兵标记，与激活标志双重判定抢占
const singletonMarker = "sphere-quad-menu"

// 扇形按钮按登记顺序均匀分布在整圆上
var chipLabels = []string{"Ask AI", "Quick Terminal", "Review", "Quick Notes", "Advanced"}

// WidgetService 悬浮球控制器：单例抢占、拖拽状态机、位置持久化。
// 点击与拖拽用欧氏距离阈值区分，一旦越过阈值本轮不再回落为点击。
type WidgetService interface {
	Mount() bool
	Unmount()
	Pointer(req *dto.PointerReq) (*dto.PointerResult, error)
	Resize(width, height float64) *dto.PositionDTO
	Trigger(ctx context.Context, label string) error
	State() *dto.WidgetStateDTO
}

// WidgetAction 扇形按钮触发后的回调
type WidgetAction func(ctx context.Context) error

type widgetServiceImpl struct {
	cfg      config.WidgetConfig
	registry *singleton.Registry
	store    StateStore
	actions  map[string]WidgetAction

	mu        sync.Mutex
	active    bool
	pos       dto.PositionDTO
	viewportW float64
	viewportH float64

	pressed  bool
	dragging bool
	downX    float64
	downY    float64
	offsetX  float64
	offsetY  float64
	suppress bool
}

func NewWidgetService(cfg config.WidgetConfig, registry *singleton.Registry, store StateStore, actions map[string]WidgetAction) WidgetService {
	if cfg.StorageKey == "" {
		cfg.StorageKey = consts.StorageWidgetPosKey
	}
	if actions == nil {
		actions = map[string]WidgetAction{}
	}
	return &widgetServiceImpl{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		actions:   actions,
		viewportW: cfg.ViewportW,
		viewportH: cfg.ViewportH,
	}
}

// Mount 抢占单例并恢复持久化位置。抢占失败时保持去激活，
// 不重复渲染第二个实例。
func (s *widgetServiceImpl) Mount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return true
	}
	if !s.registry.TryAcquire(singletonMarker) {
		log.Warn("悬浮球已有活跃实例，放弃挂载")
		return false
	}

	s.active = true
	s.pos = dto.PositionDTO{X: s.cfg.InitialX, Y: s.cfg.InitialY}

	var saved dto.PositionDTO
	if s.store.Get(s.cfg.StorageKey, &saved) && finite(saved.X) && finite(saved.Y) {
		s.pos = saved
	}
	s.pos = s.clampLocked(s.pos)
	return true
}

// Unmount 仅持有者释放占用并复位指针状态
func (s *widgetServiceImpl) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	s.pressed = false
	s.dragging = false
	s.suppress = false
	s.registry.Release(singletonMarker)
}

// Pointer 指针事件状态机。
// down 记录起点与球心偏移；move 越过阈值后进入拖拽并跟随指针；
// up 时若从未越过阈值判定为点击，否则落点持久化。
func (s *widgetServiceImpl) Pointer(req *dto.PointerReq) (*dto.PointerResult, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil, ErrWidgetInactive
	}

	switch req.Type {
	case "down":
		s.pressed = true
		s.dragging = false
		s.suppress = false
		s.downX = req.X
		s.downY = req.Y
		s.offsetX = req.X - s.pos.X
		s.offsetY = req.Y - s.pos.Y
	case "move":
		if !s.pressed {
			break
		}
		if !s.dragging {
			if math.Hypot(req.X-s.downX, req.Y-s.downY) > s.cfg.DragThreshold {
				s.dragging = true
				s.suppress = true
			}
		}
		if s.dragging {
			s.pos = s.clampLocked(dto.PositionDTO{
				X: req.X - s.offsetX,
				Y: req.Y - s.offsetY,
			})
		}
	case "up":
		if !s.pressed {
			break
		}
		s.pressed = false
		clicked := !s.suppress
		if s.dragging {
			s.dragging = false
			s.persistLocked()
		}
		return &dto.PointerResult{Clicked: clicked, Position: s.pos}, nil
	default:
		return nil, ErrParamInvalid
	}

	return &dto.PointerResult{Dragging: s.dragging, Position: s.pos}, nil
}

// Resize 视口变化后把球重新夹回可视区域并持久化
func (s *widgetServiceImpl) Resize(width, height float64) *dto.PositionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width > 0 {
		s.viewportW = width
	}
	if height > 0 {
		s.viewportH = height
	}
	if !s.active {
		p := s.pos
		return &p
	}

	clamped := s.clampLocked(s.pos)
	if clamped != s.pos {
		s.pos = clamped
		s.persistLocked()
	}
	p := s.pos
	return &p
}

// Trigger 触发扇形按钮；拖拽过程中触发一律忽略
func (s *widgetServiceImpl) Trigger(ctx context.Context, label string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrWidgetInactive
	}
	if s.dragging {
		s.mu.Unlock()
		return ErrWidgetNoAction
	}
	action, ok := s.actions[label]
	s.mu.Unlock()

	if !ok {
		return errors.Wrap(ErrWidgetNoAction, label)
	}
	if action == nil {
		return nil
	}
	return action(ctx)
}

func (s *widgetServiceImpl) State() *dto.WidgetStateDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.WidgetStateDTO{
		Active:   s.active,
		Dragging: s.dragging,
		Position: s.pos,
		Chips:    s.chipsLocked(),
	}
}

// chipsLocked 相对球心的极坐标布点，第一个按钮固定在正上方
func (s *widgetServiceImpl) chipsLocked() []*dto.ChipDTO {
	chips := make([]*dto.ChipDTO, 0, len(chipLabels))
	n := float64(len(chipLabels))
	for i, label := range chipLabels {
		angle := -math.Pi/2 + float64(i)*2*math.Pi/n
		chips = append(chips, &dto.ChipDTO{
			Label: label,
			X:     s.cfg.Radius * math.Cos(angle),
			Y:     s.cfg.Radius * math.Sin(angle),
		})
	}
	return chips
}

func (s *widgetServiceImpl) clampLocked(p dto.PositionDTO) dto.PositionDTO {
	minX := s.cfg.Margin
	minY := s.cfg.Margin
	maxX := s.viewportW - s.cfg.SphereSize - s.cfg.Margin
	maxY := s.viewportH - s.cfg.SphereSize - s.cfg.Margin
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return dto.PositionDTO{
		X: math.Min(math.Max(p.X, minX), maxX),
		Y: math.Min(math.Max(p.Y, minY), maxY),
	}
}

func (s *widgetServiceImpl) persistLocked() {
	if err := s.store.Set(s.cfg.StorageKey, s.pos); err != nil {
		log.Warn("悬浮球位置持久化失败", "err", err)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
