package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	mysqlDriver "github.com/go-sql-driver/mysql"

	"github.com/Guyuepp/bucket-filter/domain"
)

// MySQL server errors that mean the session itself could not be set up.
const (
	erDBAccessDenied = 1044
	erAccessDenied   = 1045
	erBadDB          = 1049
)

// classify maps a driver error to the domain error kinds.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnableToConnect) || errors.Is(err, domain.ErrUnexpected) {
		return err
	}

	var myErr *mysqlDriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDBAccessDenied, erAccessDenied, erBadDB:
			return domain.UnableToConnect(msg, err)
		}
		return domain.Unexpected(msg, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqlDriver.ErrInvalidConn) {
		return domain.UnableToConnect(msg, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && !errors.Is(err, context.DeadlineExceeded) {
		return domain.UnableToConnect(msg, err)
	}
	return domain.Unexpected(msg, err)
}
