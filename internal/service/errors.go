package service

import (
	"errors"

	"flow-board/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBoardNotFound        = errors.New("game board not found")
	ErrSolutionNotFound     = errors.New("solution not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalServer       = errors.New("internal server error")
)

// mapRepoError 将仓库层的错误映射到服务层错误。
// notFound 是该资源对应的业务错误，其它错误一律视为内部错误。
func mapRepoError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	return ErrInternalServer
}
