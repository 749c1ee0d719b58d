package gormpersistence

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"flow-board/internal/repository"
)

// mysqlDuplicateEntry 是 MySQL 唯一约束冲突的错误码
const mysqlDuplicateEntry = 1062

// mapSaveError 把唯一约束错误映射为仓库层错误，其它错误原样返回 (由调用者包装)。
func mapSaveError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return repository.ErrDuplicateEntry
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicateEntry
	}
	return err
}

// isNotFound 判断是否为记录未找到错误。
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
