package catalog

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClientRow подставляет значения колонок clients в порядке SELECT
type fakeClientRow struct {
	id       int64
	tenantID int64
	name     string
	email    sql.NullString
}

func (f fakeClientRow) Scan(dest ...interface{}) error {
	*(dest[0].(*int64)) = f.id
	*(dest[1].(*int64)) = f.tenantID
	*(dest[2].(*string)) = f.name
	*(dest[3].(*sql.NullString)) = f.email
	*(dest[5].(*sql.NullTime)) = sql.NullTime{Time: time.Now(), Valid: true}
	*(dest[6].(*sql.NullTime)) = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func TestScanClient_NullEmail(t *testing.T) {
	client, err := scanClient(fakeClientRow{
		id:       7,
		tenantID: 42,
		name:     "Клиент",
		email:    sql.NullString{},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), client.ID)
	assert.Equal(t, "Клиент", client.Name)
	assert.Equal(t, "", client.Email)
}

func TestScanClient_WithEmail(t *testing.T) {
	client, err := scanClient(fakeClientRow{
		id:       7,
		tenantID: 42,
		name:     "Клиент",
		email:    sql.NullString{String: "client@example.com", Valid: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", client.Email)
}
