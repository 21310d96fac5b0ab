package cmd

import (
	"gorm.io/gorm"

	"laundry/internal/adapters/out/postgres"
	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
)

// CompositionRoot wires adapters into command and query handlers. Each
// Create* method builds a fresh handler; handlers are cheap and stateless.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	catalog    []services.CatalogItem
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	catalog []services.CatalogItem,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		catalog:    catalog,
	}
}

// PricingSettings builds the engine settings from configuration.
func (c *CompositionRoot) PricingSettings() services.Settings {
	return services.Settings{
		MinimumWeight:        c.config.MinimumWeight,
		MinimumPrice:         c.config.MinimumPrice,
		PricePerPound:        c.config.PricePerPound,
		SameDayExtraPerPound: c.config.SameDayExtraPerPound,
		SameDayMinimumCharge: c.config.SameDayMinimumCharge,
	}
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateScanMachineCommandHandler() commands.ScanMachineCommandHandler {
	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewScanMachineCommandHandler(f, c.config.ScanIdempotencyWindow)
}

func (c *CompositionRoot) CreateCheckMachineCommandHandler() commands.CheckMachineCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckMachineCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateUncheckMachineCommandHandler() commands.UncheckMachineCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUncheckMachineCommandHandler(f)
}

func (c *CompositionRoot) CreateReleaseMachineCommandHandler() commands.ReleaseMachineCommandHandler {
	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReleaseMachineCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceDryerCommandHandler() commands.AdvanceDryerCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceDryerCommandHandler(f)
}

func (c *CompositionRoot) CreateVerifyOrderStepCommandHandler() commands.VerifyOrderStepCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyOrderStepCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateApplyCreditCommandHandler() commands.ApplyCreditCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyCreditCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateRefundCreditCommandHandler() commands.RefundCreditCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRefundCreditCommandHandler(f)
}

func (c *CompositionRoot) CreateRecalculateOrderTotalCommandHandler() commands.RecalculateOrderTotalCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecalculateOrderTotalCommandHandler(f, c.PricingSettings(), c.catalog)
}

func (c *CompositionRoot) CreateReleaseStaleReservationsCommandHandler() commands.ReleaseStaleReservationsCommandHandler {
	var f commands.ReservationsUoWFactory = FuncReservationsUoWFactory(func() commands.ReservationsUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReleaseStaleReservationsCommandHandler(f)
}

func (c *CompositionRoot) CreateRemindReadyOrdersCommandHandler() commands.RemindReadyOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRemindReadyOrdersCommandHandler(f, c.publisher, c.config.ReadyReminderMaxAge)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderReceiptQueryHandler() queries.GetOrderReceiptQueryHandler {
	return queries.NewGetOrderReceiptQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCreditHistoryQueryHandler() queries.GetCreditHistoryQueryHandler {
	return queries.NewGetCreditHistoryQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}

type FuncReservationsUoWFactory func() commands.ReservationsUoW

func (f FuncReservationsUoWFactory) Create() commands.ReservationsUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
