package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}))
	assert.False(t, IsRetryable(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.False(t, IsRetryable(nil))

	// Wrapped driver errors still match.
	wrapped := fmt.Errorf("borrow tx: %w", &mysql.MySQLError{Number: 1213})
	assert.True(t, IsRetryable(wrapped))
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("plain error")))

	wrapped := fmt.Errorf("insert borrowing: %w", &mysql.MySQLError{Number: 1062})
	assert.True(t, IsDuplicateEntry(wrapped))
}

func TestErrRetriesExhausted_Detectable(t *testing.T) {
	joined := errors.Join(ErrRetriesExhausted, &mysql.MySQLError{Number: 1213})
	assert.True(t, errors.Is(joined, ErrRetriesExhausted))
	assert.True(t, IsRetryable(joined))
}
