package engine

import "flow-board/internal/domain"

// SolutionStore 独占持有某个谜题板当前已提交的路径集合。
// 只有 Commit 和 Remove 会修改它。
type SolutionStore struct {
	id      string // 为空表示尚未持久化
	boardID string
	paths   []domain.Path
}

// NewSolutionStore 创建一个空的解答存储。
func NewSolutionStore(boardID string) *SolutionStore {
	return &SolutionStore{boardID: boardID, paths: make([]domain.Path, 0)}
}

func (s *SolutionStore) ID() string      { return s.id }
func (s *SolutionStore) BoardID() string { return s.boardID }
func (s *SolutionStore) Len() int        { return len(s.paths) }

// SetID 在解答首次保存成功后记录其 ID，此后保存走更新流程。
func (s *SolutionStore) SetID(id string) { s.id = id }

// Paths 返回已提交路径的拷贝。
func (s *SolutionStore) Paths() []domain.Path {
	out := make([]domain.Path, len(s.paths))
	for i, p := range s.paths {
		out[i] = p.Clone()
	}
	return out
}

// Occupied 判断格子是否已被某条已提交路径使用。
func (s *SolutionStore) Occupied(c domain.Cell) bool {
	for i := range s.paths {
		if s.paths[i].Contains(c) {
			return true
		}
	}
	return false
}

// PathWithEndpoint 返回以该格子为端点的已提交路径。
func (s *SolutionStore) PathWithEndpoint(c domain.Cell) (domain.Path, bool) {
	for i := range s.paths {
		if s.paths[i].HasEndpoint(c) {
			return s.paths[i].Clone(), true
		}
	}
	return domain.Path{}, false
}

// Commit 将已通过全部校验的路径加入集合。
func (s *SolutionStore) Commit(p domain.Path) {
	p = p.Clone()
	p.Completed = true
	s.paths = append(s.paths, p)
}

// Remove 删除以该格子为端点的路径并返回它。
func (s *SolutionStore) Remove(c domain.Cell) (domain.Path, error) {
	for i := range s.paths {
		if s.paths[i].HasEndpoint(c) {
			removed := s.paths[i]
			s.paths = append(s.paths[:i:i], s.paths[i+1:]...)
			return removed, nil
		}
	}
	return domain.Path{}, ErrDotNotInPath
}
