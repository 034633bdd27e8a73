package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	pkgErrors "tcms/pkg/errors"
)

// findError 把查询错误转换为实体相关的 NotFound 或数据库错误
func findError(err error, notFound *pkgErrors.AppError, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, message, err)
}

// writeError 写入失败时区分约束冲突, 保留驱动原始错误信息
func writeError(err error, message string) error {
	if isConstraintViolation(err) {
		return pkgErrors.Wrap(pkgErrors.CodeConstraintViolation, message, err)
	}
	return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, message, err)
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1062, 1364, 1451, 1452: // cannot be null, duplicate, no default, fk
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
