package customerrepo_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/customerrepo"
	"laundry/internal/core/domain/model/customer"
	"laundry/internal/core/domain/model/kernel"
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

// CustomerRepositoryIntegrationTestSuite provides integration tests for
// CustomerRepository using PostgreSQL containers.
type CustomerRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *customerrepo.GormCustomerRepository
	tracker    *MockAggregateTracker
}

func (suite *CustomerRepositoryIntegrationTestSuite) SetupSuite() {
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
		&customerrepo.CustomerDTO{},
		&customerrepo.CreditEntryDTO{},
	))
}

func (suite *CustomerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE customers, credit_entries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = customerrepo.NewGormCustomerRepository(suite.db, suite.tracker)
}

func (suite *CustomerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestAdd_ValidCustomer_Success() {
	ctx := context.Background()

	testCustomer := suite.createTestCustomer()
	suite.tracker.On("TrackAggregate", testCustomer.ID(), testCustomer).Once()

	err := suite.repository.Add(ctx, testCustomer)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&customerrepo.CustomerDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestGet_RoundTripsLedger() {
	ctx := context.Background()

	testCustomer := suite.createTestCustomer()
	suite.Require().NoError(testCustomer.AddCredit(25, "gift card", time.Now()))
	suite.Require().NoError(testCustomer.UseCredit(10, "applied to order #41", time.Now()))

	suite.tracker.On("TrackAggregate", testCustomer.ID(), testCustomer).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testCustomer))

	retrieved, err := suite.repository.Get(ctx, testCustomer.ID())
	suite.Require().NoError(err)

	suite.Equal(testCustomer.ID(), retrieved.ID())
	suite.Equal("Dana Wu", retrieved.Name())
	suite.InDelta(15, retrieved.CreditBalance(), 0.001)
	suite.Require().Len(retrieved.Ledger(), 2)
	suite.Equal(customer.EntryAdd, retrieved.Ledger()[0].EntryType())
	suite.Equal(customer.EntryUse, retrieved.Ledger()[1].EntryType())
	suite.InDelta(retrieved.CreditBalance(), retrieved.LedgerBalance(), 0.001)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestGet_NonExistentCustomer_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestUpdate_AppendsOnlyNewLedgerRows() {
	ctx := context.Background()

	testCustomer := suite.createTestCustomer()
	suite.Require().NoError(testCustomer.AddCredit(30, "gift card", time.Now()))

	suite.tracker.On("TrackAggregate", testCustomer.ID(), testCustomer).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testCustomer))

	suite.Require().NoError(testCustomer.UseCredit(12.5, "applied to order #7", time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, testCustomer))

	var entryCount int64
	suite.Require().NoError(
		suite.db.Model(&customerrepo.CreditEntryDTO{}).Count(&entryCount).Error)
	suite.Equal(int64(2), entryCount)

	retrieved, err := suite.repository.Get(ctx, testCustomer.ID())
	suite.Require().NoError(err)
	suite.InDelta(17.5, retrieved.CreditBalance(), 0.001)
	suite.Require().Len(retrieved.Ledger(), 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestGet_ConcurrentCreditUse_SerializesOnCustomerRow() {
	ctx := context.Background()

	testCustomer := suite.createTestCustomer()
	suite.Require().NoError(testCustomer.AddCredit(10, "gift card", time.Now()))
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.Require().NoError(suite.repository.Add(ctx, testCustomer))

	// Two transactions race to spend the same $10. Get takes a row lock, so
	// the second transaction reads the committed zero balance and fails the
	// deduction instead of silently overwriting the first one.
	spend := func() error {
		tx := suite.db.Begin()
		if tx.Error != nil {
			return tx.Error
		}
		defer tx.Rollback()

		repository := customerrepo.NewGormCustomerRepository(tx, suite.tracker)
		loaded, err := repository.Get(ctx, testCustomer.ID())
		if err != nil {
			return err
		}
		if err := loaded.UseCredit(10, "applied to order #9", time.Now()); err != nil {
			return err
		}
		if err := repository.Update(ctx, loaded); err != nil {
			return err
		}
		return tx.Commit().Error
	}

	results := make(chan error, 2)
	for range 2 {
		go func() { results <- spend() }()
	}

	var failures []error
	for range 2 {
		if err := <-results; err != nil {
			failures = append(failures, err)
		}
	}

	suite.Require().Len(failures, 1)
	suite.Require().ErrorIs(failures[0], customer.ErrInsufficientCredit)

	retrieved, err := suite.repository.Get(ctx, testCustomer.ID())
	suite.Require().NoError(err)
	suite.InDelta(0, retrieved.CreditBalance(), 0.001)
	suite.Require().Len(retrieved.Ledger(), 2)
	suite.InDelta(retrieved.CreditBalance(), retrieved.LedgerBalance(), 0.001)
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestUpdate_NonExistentCustomer_ReturnsError() {
	ctx := context.Background()

	missing := suite.createTestCustomer()

	err := suite.repository.Update(ctx, missing)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CustomerRepositoryIntegrationTestSuite) createTestCustomer() *customer.Customer {
	testCustomer, err := customer.NewCustomer(kernel.NewUUID(), "Dana Wu", "+1 555 0100")
	suite.Require().NoError(err)
	return testCustomer
}

func TestCustomerRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerRepositoryIntegrationTestSuite))
}
