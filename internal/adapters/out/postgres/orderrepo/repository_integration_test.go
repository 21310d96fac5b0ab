package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE orders, bags, machine_assignments, order_extras").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(1001)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsChildren() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(1002)
	operator := suite.newActor("emp-1", "MS")

	bag, err := order.NewBag("B-1", 12.5, "blue", "towels")
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.AddBag(bag))
	suite.Require().NoError(testOrder.Transition(order.StatusReceived, operator, time.Now()))

	descriptor, err := order.ParseMachineDescriptor("washer:W-3")
	suite.Require().NoError(err)
	outcome, err := testOrder.AssignMachine(descriptor, operator, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().False(outcome.RequiresBagSelection)

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(int64(1002), retrieved.DisplayNumber())
	suite.Equal(order.StatusReceived, retrieved.Status())
	suite.Require().Len(retrieved.Bags(), 1)
	suite.Equal("B-1", retrieved.Bags()[0].Identifier())
	suite.InDelta(12.5, retrieved.Bags()[0].Weight(), 0.001)
	suite.Require().Len(retrieved.Machines(), 1)
	suite.Equal("W-3", retrieved.Machines()[0].MachineID())
	suite.Equal(order.Washer, retrieved.Machines()[0].MachineType())
	suite.Equal("B-1", retrieved.Machines()[0].BagIdentifier())
	suite.Equal("emp-1", retrieved.Machines()[0].AssignedBy().ID())
	suite.False(retrieved.Machines()[0].IsChecked())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByDisplayNumber_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(777)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.GetByDisplayNumber(ctx, 777)
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ReplacesChildCollections() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(1003)
	operator := suite.newActor("emp-1", "MS")
	second := suite.newActor("emp-2", "JK")

	suite.Require().NoError(testOrder.Transition(order.StatusReceived, operator, time.Now()))
	descriptor, err := order.ParseMachineDescriptor("washer:W-5")
	suite.Require().NoError(err)
	_, err = testOrder.AssignMachine(descriptor, operator, "", time.Now())
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Mutate and persist: check the machine, release it, scan a dryer.
	suite.Require().NoError(testOrder.CheckMachine("W-5", second, false, time.Now()))
	suite.Require().NoError(testOrder.UncheckMachine("W-5", second))
	suite.Require().NoError(testOrder.ReleaseMachine("W-5", operator, time.Now()))

	dryer, err := order.ParseMachineDescriptor("dryer:D-2")
	suite.Require().NoError(err)
	_, err = testOrder.AssignMachine(dryer, operator, "", time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Machines(), 2)

	var active int
	for _, m := range retrieved.Machines() {
		if m.IsActive() {
			active++
			suite.Equal("D-2", m.MachineID())
		}
	}
	suite.Equal(1, active)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ConcurrentMachineScans_KeepBothAssignments() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(1004)
	operator := suite.newActor("emp-1", "MS")
	suite.Require().NoError(testOrder.Transition(order.StatusReceived, operator, time.Now()))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two scans race on the same order. Get locks the order row, so the
	// second transaction loads the first machine before replacing the child
	// collections instead of wiping it.
	scan := func(machine string) error {
		tx := suite.db.Begin()
		if tx.Error != nil {
			return tx.Error
		}
		defer tx.Rollback()

		repository := orderrepo.NewGormOrderRepository(tx, suite.tracker)
		loaded, err := repository.Get(ctx, testOrder.ID())
		if err != nil {
			return err
		}
		descriptor, err := order.ParseMachineDescriptor(machine)
		if err != nil {
			return err
		}
		if _, err := loaded.AssignMachine(descriptor, operator, "", time.Now()); err != nil {
			return err
		}
		if err := repository.Update(ctx, loaded); err != nil {
			return err
		}
		return tx.Commit().Error
	}

	results := make(chan error, 2)
	for _, machine := range []string{"washer:W-1", "washer:W-2"} {
		go func() { results <- scan(machine) }()
	}
	for range 2 {
		suite.Require().NoError(<-results)
	}

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Machines(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	missing := suite.createTestOrder(9999)

	err := suite.repository.Update(ctx, missing)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllActive_ExcludesCompletedOrders() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	first := suite.createTestOrder(1)
	second := suite.createTestOrder(2)
	completed := suite.restoreOrderWithStatus(3, order.StatusCompleted, nil)

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, completed))

	active, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(active, 2)
	suite.Equal(int64(1), active[0].DisplayNumber())
	suite.Equal(int64(2), active[1].DisplayNumber())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllReadyBefore_FiltersByFinalCheckTime() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-5 * time.Minute)

	stale := suite.restoreOrderWithStatus(10, order.StatusReadyForPickup, &old)
	recent := suite.restoreOrderWithStatus(11, order.StatusReadyForPickup, &fresh)
	inProgress := suite.restoreOrderWithStatus(12, order.StatusInWasher, nil)

	suite.Require().NoError(suite.repository.Add(ctx, stale))
	suite.Require().NoError(suite.repository.Add(ctx, recent))
	suite.Require().NoError(suite.repository.Add(ctx, inProgress))

	ready, err := suite.repository.GetAllReadyBefore(ctx, time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(ready, 1)
	suite.Equal(int64(10), ready[0].DisplayNumber())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestNextDisplayNumber_Increments() {
	ctx := context.Background()

	next, err := suite.repository.NextDisplayNumber(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), next)

	testOrder := suite.createTestOrder(41)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	next, err = suite.repository.NextDisplayNumber(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(42), next)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) newActor(id, name string) kernel.Actor {
	actor, err := kernel.NewActor(id, name)
	suite.Require().NoError(err)
	return actor
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(displayNumber int64) *order.Order {
	testOrder, err := order.NewOrder(
		kernel.NewUUID(), displayNumber, kernel.NewUUID(), order.StorePickup, false, false)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) restoreOrderWithStatus(
	displayNumber int64, status order.Status, finalCheckedAt *time.Time,
) *order.Order {
	var finalCheckedBy *kernel.Actor
	if finalCheckedAt != nil {
		actor := suite.newActor("emp-2", "JK")
		finalCheckedBy = &actor
	}

	testOrder, err := order.RestoreOrder(
		kernel.NewUUID(), displayNumber, kernel.NewUUID(), order.StorePickup,
		order.RestoredOrderState{
			Status:         status,
			PaymentStatus:  order.PaymentUnpaid,
			FinalCheckedBy: finalCheckedBy,
			FinalCheckedAt: finalCheckedAt,
		})
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
