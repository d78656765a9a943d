package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"padoca/internal/models"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo OrderRepository
	ctx  context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrderRepository(mock)
	suite.ctx = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func orderColumns() []string {
	return []string{"id", "client_id", "status", "total_value", "pdf_path", "pdf_url", "created_at", "updated_at", "deleted_at"}
}

func (suite *OrderRepoTestSuite) TestGetByID_Found() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT id, client_id, status, total_value, pdf_path, pdf_url, created_at, updated_at, deleted_at\s+FROM orders\s+WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(int64(42), int64(5), models.StatusPendente, 27.90, nil, nil, now, now, nil))
	suite.mock.ExpectQuery(`SELECT id, order_id, product_id, quantity, unit_price, subtotal, created_at\s+FROM order_items\s+WHERE order_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "subtotal", "created_at"}).
			AddRow(int64(1), int64(42), int64(10), 10.0, 0.50, 5.00, now).
			AddRow(int64(2), int64(42), int64(11), 1.0, 22.90, 22.90, now))

	order, err := suite.repo.GetByID(suite.ctx, 42)
	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	assert.Equal(suite.T(), int64(42), order.ID)
	assert.Equal(suite.T(), models.StatusPendente, order.Status)
	assert.Len(suite.T(), order.Items, 2)
	assert.Equal(suite.T(), 5.00, order.Items[0].Subtotal)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestGetByID_AbsentReturnsNilNil() {
	suite.mock.ExpectQuery(`SELECT id, client_id, status, total_value, pdf_path, pdf_url, created_at, updated_at, deleted_at\s+FROM orders`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	order, err := suite.repo.GetByID(suite.ctx, 404)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), order)
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_Success() {
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND deleted_at IS NULL`).
		WithArgs(models.StatusConfirmado, int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.ctx, 42, models.StatusConfirmado)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestUpdateStatus_MissingRow() {
	suite.mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs(models.StatusConfirmado, int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.ctx, 404, models.StatusConfirmado)
	assert.Error(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestSoftDelete_ForcesCancelado() {
	suite.mock.ExpectExec(`UPDATE orders SET deleted_at = NOW\(\), status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND deleted_at IS NULL`).
		WithArgs(models.StatusCancelado, int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SoftDelete(suite.ctx, 42)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_CommitsAndStoresDocument() {
	now := time.Now()
	order := &models.Order{
		ClientID:   5,
		Status:     models.StatusPendente,
		TotalValue: 5.00,
		Items: []*models.OrderItem{
			{ProductID: 10, Quantity: 10, UnitPrice: 0.50, Subtotal: 5.00},
		},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO orders \(client_id, status, total_value\)`).
		WithArgs(int64(5), models.StatusPendente, 5.00).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(100), now, now))
	suite.mock.ExpectQuery(`INSERT INTO order_items \(order_id, product_id, quantity, unit_price, subtotal\)`).
		WithArgs(int64(100), int64(10), 10.0, 0.50, 5.00).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	suite.mock.ExpectExec(`UPDATE orders SET pdf_path = \$1, pdf_url = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), int64(100)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithItems(suite.ctx, order, func(o *models.Order) error {
		path := "orders/100/doc.pdf"
		url := "https://storage/orders/100/doc.pdf"
		o.PDFPath = &path
		o.PDFURL = &url
		return nil
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(100), order.ID)
	assert.Equal(suite.T(), int64(100), order.Items[0].OrderID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCreateWithItems_HookFailureRollsBack() {
	now := time.Now()
	order := &models.Order{
		ClientID:   5,
		Status:     models.StatusPendente,
		TotalValue: 5.00,
		Items: []*models.OrderItem{
			{ProductID: 10, Quantity: 10, UnitPrice: 0.50, Subtotal: 5.00},
		},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO orders \(client_id, status, total_value\)`).
		WithArgs(int64(5), models.StatusPendente, 5.00).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(100), now, now))
	suite.mock.ExpectQuery(`INSERT INTO order_items \(order_id, product_id, quantity, unit_price, subtotal\)`).
		WithArgs(int64(100), int64(10), 10.0, 0.50, 5.00).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	suite.mock.ExpectRollback()

	hookErr := errors.New("document generation failed")
	err := suite.repo.CreateWithItems(suite.ctx, order, func(o *models.Order) error {
		return hookErr
	})
	suite.Require().Error(err)
	assert.ErrorIs(suite.T(), err, hookErr)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestList_TenantFilterApplied() {
	now := time.Now()
	five := int64(5)
	status := models.StatusPendente
	filter := models.OrderListFilter{ClientID: &five, Status: &status, Page: 1, Limit: 10}

	suite.mock.ExpectQuery(`FROM orders\s+WHERE deleted_at IS NULL AND client_id = \$1 AND status = \$2`).
		WithArgs(five, status, 10, 0).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(int64(1), five, status, 10.00, nil, nil, now, now, nil))

	orders, err := suite.repo.List(suite.ctx, filter)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	assert.Equal(suite.T(), five, orders[0].ClientID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *OrderRepoTestSuite) TestCount_UsesSameFilter() {
	five := int64(5)
	filter := models.OrderListFilter{ClientID: &five, Page: 1, Limit: 10}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE deleted_at IS NULL AND client_id = \$1`).
		WithArgs(five).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.Count(suite.ctx, filter)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *OrderRepoTestSuite) TestListStaleDrafts() {
	now := time.Now()
	cutoff := now.Add(-7 * 24 * time.Hour)

	suite.mock.ExpectQuery(`WHERE status = \$1 AND deleted_at IS NULL AND updated_at < \$2`).
		WithArgs(models.StatusRascunho, cutoff, 100).
		WillReturnRows(pgxmock.NewRows(orderColumns()).
			AddRow(int64(7), int64(5), models.StatusRascunho, 0.0, nil, nil, now, now, nil))

	drafts, err := suite.repo.ListStaleDrafts(suite.ctx, cutoff, 100)
	suite.Require().NoError(err)
	suite.Require().Len(drafts, 1)
	assert.Equal(suite.T(), models.StatusRascunho, drafts[0].Status)
}
