package engine

import (
	"fmt"

	"flow-board/internal/domain"
)

// State 是拖拽状态机的状态。Committed / Discarded 是瞬时结果，结束后都回到 Idle。
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EventType 是输入端送来的离散事件类型。
type EventType string

const (
	EventPointerDown EventType = "pointer_down"
	EventPointerMove EventType = "pointer_move"
	EventPointerUp   EventType = "pointer_up"
	EventRemove      EventType = "remove"
)

// Event 是一次输入事件。Cell 为 nil 只对 PointerUp 有意义，表示松开时不在任何格子上。
type Event struct {
	Type EventType
	Cell *domain.Cell
}

func PointerDown(c domain.Cell) Event { return Event{Type: EventPointerDown, Cell: &c} }
func PointerMove(c domain.Cell) Event { return Event{Type: EventPointerMove, Cell: &c} }
func PointerUp(c domain.Cell) Event   { return Event{Type: EventPointerUp, Cell: &c} }
func PointerUpOutside() Event         { return Event{Type: EventPointerUp} }
func RemoveRequested(c domain.Cell) Event {
	return Event{Type: EventRemove, Cell: &c}
}

// EffectKind 是交给渲染端 / 错误列表端的请求类型。
type EffectKind string

const (
	EffectDrawPreview  EffectKind = "draw_preview"
	EffectClearPreview EffectKind = "clear_preview"
	EffectFinalizePath EffectKind = "finalize_path"
	EffectClearPath    EffectKind = "clear_path"
	EffectShowErrors   EffectKind = "errors"
	EffectClearErrors  EffectKind = "clear_errors"
)

// Effect 描述一次需要外部协作者执行的副作用。引擎状态不依赖它的执行结果。
type Effect struct {
	Kind     EffectKind    `json:"type"`
	Color    string        `json:"color,omitempty"`
	Cells    []domain.Cell `json:"cells,omitempty"`
	Messages []string      `json:"messages,omitempty"`
	// Rejection 是引擎内部的拒绝原因，只用于统计，不发送给客户端
	Rejection error `json:"-"`
}

// Session 是一次绘制会话的上下文：谜题板、已提交解答以及至多一条正在绘制的路径。
// 它只由一个 goroutine 驱动，内部不加锁。
type Session struct {
	board   *BoardIndex
	store   *SolutionStore
	state   State
	current *domain.Path
}

// NewSession 创建处于 Idle 状态的会话。
func NewSession(board *BoardIndex, store *SolutionStore) *Session {
	if board == nil || store == nil {
		panic("board and store cannot be nil for Session")
	}
	return &Session{board: board, store: store, state: StateIdle}
}

func (s *Session) State() State          { return s.state }
func (s *Session) Board() *BoardIndex    { return s.board }
func (s *Session) Store() *SolutionStore { return s.store }

// Current 返回正在绘制路径的拷贝。
func (s *Session) Current() (domain.Path, bool) {
	if s.current == nil {
		return domain.Path{}, false
	}
	return s.current.Clone(), true
}

// ReplaceStore 用新的存储替换当前解答 (例如保存成功后服务端规范化的结果)。
// 正在进行的拖拽会被丢弃。
func (s *Session) ReplaceStore(store *SolutionStore) {
	s.store = store
	s.reset()
}

// Handle 是唯一的状态转移入口：消费一个事件，返回新状态和副作用列表。
// 校验拒绝通过 EffectShowErrors 报告；只有对不属于任何路径的点请求删除时才返回 error。
func (s *Session) Handle(ev Event) (State, []Effect, error) {
	var (
		effects []Effect
		err     error
	)
	switch ev.Type {
	case EventPointerDown:
		effects = s.start(ev.Cell)
	case EventPointerMove:
		effects = s.extend(ev.Cell)
	case EventPointerUp:
		effects = s.end(ev.Cell)
	case EventRemove:
		effects, err = s.remove(ev.Cell)
	default:
		err = fmt.Errorf("unknown event type %q", ev.Type)
	}
	return s.state, effects, err
}

func (s *Session) start(cell *domain.Cell) []Effect {
	if s.state == StateDragging || cell == nil {
		return nil
	}
	point, ok := s.board.PointAt(*cell)
	if !ok {
		return nil
	}
	if _, used := s.store.PathWithEndpoint(*cell); used {
		return []Effect{{Kind: EffectClearErrors}, errorEffect(ErrDotAlreadyUsed)}
	}
	s.current = &domain.Path{
		Color: point.Color,
		Start: *cell,
		End:   *cell,
		Cells: []domain.Cell{*cell},
	}
	s.state = StateDragging
	return nil
}

func (s *Session) extend(cell *domain.Cell) []Effect {
	if s.state != StateDragging || cell == nil {
		return nil
	}
	if *cell == s.current.Last() {
		return nil
	}
	// 非法的移动只是被忽略，不会中断拖拽
	if err := CheckExtend(s.board, s.store, s.current, *cell); err != nil {
		return nil
	}
	s.current.Cells = append(s.current.Cells, *cell)
	return []Effect{s.previewEffect(EffectDrawPreview)}
}

func (s *Session) end(cell *domain.Cell) []Effect {
	if s.state != StateDragging {
		s.reset()
		return nil
	}
	if cell == nil {
		return s.discard(nil)
	}
	point, ok := s.board.PointAt(*cell)
	if !ok {
		return s.discard(nil)
	}
	if !point.Color.Same(s.current.Color) {
		return s.discard(ErrColorMismatch)
	}
	if *cell == s.current.Start {
		return s.discard(ErrSelfConnect)
	}
	if !s.current.Last().Adjacent(*cell) {
		return s.discard(ErrEndNotAdjacent)
	}

	s.current.Cells = append(s.current.Cells, *cell)
	s.current.End = *cell
	if CrossesAny(*s.current, s.store.paths) {
		return s.discard(ErrPathsCross)
	}

	s.store.Commit(*s.current)
	effects := []Effect{s.previewEffect(EffectFinalizePath)}
	s.reset()
	return effects
}

func (s *Session) remove(cell *domain.Cell) ([]Effect, error) {
	if cell == nil {
		return nil, ErrDotNotInPath
	}
	if _, ok := s.board.PointAt(*cell); !ok {
		return nil, ErrDotNotInPath
	}
	removed, err := s.store.Remove(*cell)
	if err != nil {
		return nil, err
	}
	return []Effect{{Kind: EffectClearPath, Color: removed.Color.HexValue, Cells: removed.Cells}}, nil
}

// discard 丢弃正在绘制的路径并回到 Idle；reason 不为 nil 时附带错误提示。
func (s *Session) discard(reason error) []Effect {
	effects := []Effect{s.previewEffect(EffectClearPreview)}
	if reason != nil {
		effects = append(effects, Effect{Kind: EffectClearErrors}, errorEffect(reason))
	}
	s.reset()
	return effects
}

func (s *Session) reset() {
	s.state = StateIdle
	s.current = nil
}

func (s *Session) previewEffect(kind EffectKind) Effect {
	cells := make([]domain.Cell, len(s.current.Cells))
	copy(cells, s.current.Cells)
	return Effect{Kind: kind, Color: s.current.Color.HexValue, Cells: cells}
}

func errorEffect(reason error) Effect {
	return Effect{Kind: EffectShowErrors, Messages: []string{reason.Error()}, Rejection: reason}
}
