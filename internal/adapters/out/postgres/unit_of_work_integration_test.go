package postgres_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres"
	"laundry/internal/adapters/out/postgres/customerrepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/reservationrepo"
	"laundry/internal/core/domain/model/customer"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that order, ledger and reservation
// writes inside one unit of work commit or roll back together.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.BagDTO{},
		&orderrepo.MachineAssignmentDTO{},
		&orderrepo.ExtraUsageDTO{},
		&customerrepo.CustomerDTO{},
		&customerrepo.CreditEntryDTO{},
		&reservationrepo.ReservationDTO{},
	))
	suite.Require().NoError(db.Exec(reservationrepo.LiveReservationIndex).Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, bags, machine_assignments, order_extras, customers, credit_entries, machine_reservations").Error)
	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndReservationTogether() {
	ctx := context.Background()

	testOrder := suite.seedOrder(100)
	operator := suite.newActor("emp-1")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	descriptor, err := order.ParseMachineDescriptor("washer:W-9")
	suite.Require().NoError(err)
	_, err = testOrder.AssignMachine(descriptor, operator, "", time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.MachineReservations().Reserve(ctx, "W-9", testOrder.ID(), time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Machines(), 1)

	suite.assertLiveReservations(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndReservationTogether() {
	ctx := context.Background()

	testOrder := suite.seedOrder(101)
	operator := suite.newActor("emp-1")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	descriptor, err := order.ParseMachineDescriptor("washer:W-9")
	suite.Require().NoError(err)
	_, err = testOrder.AssignMachine(descriptor, operator, "", time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.MachineReservations().Reserve(ctx, "W-9", testOrder.ID(), time.Now()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))
	suite.Require().NoError(uow.Rollback(ctx))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(retrieved.Machines())

	suite.assertLiveReservations(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_SpansOrderAndCustomerLedger() {
	ctx := context.Background()

	testCustomer, err := customer.NewCustomer(kernel.NewUUID(), "Dana Wu", "+1 555 0100")
	suite.Require().NoError(err)
	suite.Require().NoError(testCustomer.AddCredit(50, "gift card", time.Now()))

	seed := suite.factory.Create()
	suite.Require().NoError(seed.Begin(ctx))
	suite.Require().NoError(seed.CustomerRepository().Add(ctx, testCustomer))
	suite.Require().NoError(seed.Commit(ctx))

	testOrder := suite.seedOrder(102)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(testCustomer.UseCredit(20, "applied to order #102", time.Now()))
	suite.Require().NoError(testOrder.ApplyCreditPayment(20, time.Now()))

	suite.Require().NoError(uow.CustomerRepository().Update(ctx, testCustomer))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	retrievedCustomer, err := suite.factory.Create().CustomerRepository().Get(ctx, testCustomer.ID())
	suite.Require().NoError(err)
	suite.InDelta(30, retrievedCustomer.CreditBalance(), 0.001)

	retrievedOrder, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.InDelta(20, retrievedOrder.CreditApplied(), 0.001)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) newActor(id string) kernel.Actor {
	actor, err := kernel.NewActor(id, "")
	suite.Require().NoError(err)
	return actor
}

func (suite *UnitOfWorkIntegrationTestSuite) seedOrder(displayNumber int64) *order.Order {
	ctx := context.Background()

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), displayNumber, kernel.NewUUID(), order.StorePickup, false, false)
	suite.Require().NoError(err)

	operator := suite.newActor("emp-1")
	suite.Require().NoError(testOrder.Transition(order.StatusReceived, operator, time.Now()))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) assertLiveReservations(expected int) {
	var count int64
	err := suite.db.Model(&reservationrepo.ReservationDTO{}).
		Where("released_at IS NULL").Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
