package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// mysqlErrorNumber returns the server error number of err, or 0 when err is not a MySQL error
func mysqlErrorNumber(err error) uint16 {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

func isDuplicateEntry(err error) bool {
	return mysqlErrorNumber(err) == mysqlErrDuplicateEntry
}

func isReferenceViolation(err error) bool {
	n := mysqlErrorNumber(err)
	return n == mysqlErrRowIsReferenced || n == mysqlErrNoReferencedRow
}
