package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	actor, err := kernel.NewActor("alice", "")
	require.NoError(t, err)
	aggregate, err := order.NewOrder(kernel.NewUUID(), 42, kernel.NewUUID(), order.StorePickup, false, false)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.StatusReceived, actor)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockScanUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(RecordingPublisher)
	h := commands.NewTransitionOrderCommandHandler(factory, publisher)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.StatusReceived, aggregate.Status())
	require.Len(t, publisher.published, 1)
	require.Equal(t, "order.status_changed", publisher.published[0].Kind())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	actor, err := kernel.NewActor("alice", "")
	require.NoError(t, err)
	aggregate, err := order.NewOrder(kernel.NewUUID(), 42, kernel.NewUUID(), order.StorePickup, false, false)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.StatusFolded, actor)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockScanUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(RecordingPublisher)
	h := commands.NewTransitionOrderCommandHandler(factory, publisher)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	require.Empty(t, publisher.published)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_CompletionReleasesMachines(t *testing.T) {
	ctx := t.Context()
	alice, err := kernel.NewActor("alice", "")
	require.NoError(t, err)
	bob, err := kernel.NewActor("bob", "")
	require.NoError(t, err)
	now := time.Now().UTC()

	aggregate, err := order.NewOrder(kernel.NewUUID(), 42, kernel.NewUUID(), order.StorePickup, false, false)
	require.NoError(t, err)
	for _, target := range []order.Status{order.StatusReceived, order.StatusInWasher, order.StatusInDryer} {
		require.NoError(t, aggregate.Transition(target, alice, now))
	}
	descriptor, err := order.ParseMachineDescriptor("dryer:D1")
	require.NoError(t, err)
	_, err = aggregate.AssignMachine(descriptor, alice, "", now)
	require.NoError(t, err)
	require.NoError(t, aggregate.CheckMachine("D1", bob, false, now))
	require.NoError(t, aggregate.UnloadDryer("D1", alice, now))
	require.NoError(t, aggregate.CheckDryerUnload("D1", bob, false, now))
	require.NoError(t, aggregate.StartDryerFolding("D1", alice, now))
	require.NoError(t, aggregate.MarkDryerFolded("D1", bob, now))
	require.NoError(t, aggregate.Transition(order.StatusFolding, alice, now))
	require.NoError(t, aggregate.VerifyFoldingComplete(bob, false, now))
	require.NoError(t, aggregate.FinalCheck(alice, false, now))
	aggregate.DrainEvents()

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), order.StatusCompleted, alice)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	reservations := new(MockReservations)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("MachineReservations").Return(reservations).Once(),
		reservations.On("ReleaseAllForOrder", ctx, aggregate.ID(), mock.AnythingOfType("time.Time")).Return(nil).Once(),
		repo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockScanUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(RecordingPublisher)
	h := commands.NewTransitionOrderCommandHandler(factory, publisher)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, order.StatusCompleted, aggregate.Status())
	for _, m := range aggregate.Machines() {
		require.False(t, m.IsActive())
		require.True(t, m.IsChecked())
		require.NotNil(t, m.CheckedBy())
		require.Equal(t, bob.ID(), m.CheckedBy().ID())
	}
	reservations.AssertExpectations(t)
	uow.AssertExpectations(t)
}
