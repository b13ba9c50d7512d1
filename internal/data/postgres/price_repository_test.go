package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/pricing"
)

func TestPriceRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PriceRepository{querier: mock, logger: newTestLogger()}

	query := `SELECT game, denomination, price FROM price_configs`

	t.Run("groups rows by game", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"game", "denomination", "price"}).
			AddRow(game.FreeFireLatam, 1, decimal.RequireFromString("0.66")).
			AddRow(game.FreeFireLatam, 2, decimal.RequireFromString("1.99")).
			AddRow(game.BlockStriker, 1, decimal.RequireFromString("0.82"))
		mock.ExpectQuery(query).WillReturnRows(rows)

		tables, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, tables, 2)
		assert.Equal(t, "0.66", tables[game.FreeFireLatam][1].StringFixed(2))
		assert.Equal(t, "1.99", tables[game.FreeFireLatam][2].StringFixed(2))
		assert.Equal(t, "0.82", tables[game.BlockStriker][1].StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"game", "denomination", "price"}))

		tables, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, tables)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPriceRepository_ReplaceGame(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PriceRepository{querier: mock, logger: newTestLogger()}

	deleteQuery := `DELETE FROM price_configs WHERE game = \$1`
	insertQuery := `INSERT INTO price_configs \(game, denomination, price\) VALUES \(\$1, \$2, \$3\)`

	t.Run("deletes then inserts", func(t *testing.T) {
		table := pricing.Table{1: decimal.RequireFromString("0.70")}

		mock.ExpectExec(deleteQuery).WithArgs(game.FreeFireLatam).WillReturnResult(pgxmock.NewResult("DELETE", 9))
		mock.ExpectExec(insertQuery).
			WithArgs(game.FreeFireLatam, 1, decimal.RequireFromString("0.70")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.ReplaceGame(ctx, game.FreeFireLatam, table)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete failure aborts", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(deleteQuery).WithArgs(game.FreeFireLatam).WillReturnError(expectedErr)

		err := repo.ReplaceGame(ctx, game.FreeFireLatam, pricing.Table{})
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
