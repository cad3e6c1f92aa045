package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Ping(t *testing.T) {
	tests := []struct {
		name    string
		expect  func(m pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "migrated",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT to_regclass").WillReturnRows(pgxmock.NewRows([]string{"migrated"}).AddRow(true))
			},
		},
		{
			name: "schema missing",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT to_regclass").WillReturnRows(pgxmock.NewRows([]string{"migrated"}).AddRow(false))
			},
			wantErr: errSchemaMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.expect(mock)

			hc := NewHealthCheck(mock)
			assert.Equal(t, "postgresql", hc.Name())
			err = hc.Ping(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("connection refused"))

	err = NewHealthCheck(mock).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres health")
}
