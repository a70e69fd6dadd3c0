package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErrs []error
	commits    int
	rollbacks  int
}

func (f *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.commits++
	if len(f.commitErrs) == 0 {
		return nil
	}
	err := f.commitErrs[0]
	f.commitErrs = f.commitErrs[1:]
	return err
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

type fakeBeginner struct {
	tx     *fakeTx
	begins int
}

func (f *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	return f.tx, nil
}

func serializationErr() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesOnCommitConflict(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{
		commitErrs: []error{serializationErr(), serializationErr(), serializationErr()},
	}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)

	// Конфликт сериализации на COMMIT повторяется до maxSerializableRetries раз
	assert.Equal(t, maxSerializableRetries, beginner.begins)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, serializationFailureCode, string(pqErr.Code))
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{
		commitErrs: []error{serializationErr()},
	}}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, beginner.begins)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_NoRetryOnOtherCommitError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{
		commitErrs: []error{errors.New("connection reset")},
	}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, ErrCommitTx)
	assert.Equal(t, 1, beginner.begins)
}

func TestDoSerializable_RetriesOnWrappedStatementConflict(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	sentinel := errors.New("storage: query failed")

	// Ошибка уровня запроса, обернутая репозиторием с сохранением цепочки
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("%w: execute insert: %w", sentinel, serializationErr())
	})
	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, beginner.begins)
	assert.Equal(t, maxSerializableRetries, beginner.tx.rollbacks)
	assert.ErrorIs(t, err, sentinel)
}

func TestDoSerializable_NoRetryOnBusinessError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	businessErr := errors.New("staff already booked")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return businessErr
	})
	require.ErrorIs(t, err, businessErr)
	assert.Equal(t, 1, beginner.begins)
	assert.Equal(t, 1, beginner.tx.rollbacks)
}

func TestDo_CommitsOnce(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, beginner.begins)
	assert.Equal(t, 1, beginner.tx.commits)
	assert.Equal(t, 0, beginner.tx.rollbacks)
}
