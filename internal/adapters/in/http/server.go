// Package http exposes the workflow operations over REST. Every handler
// resolves the acting employee from the X-Actor-Id and X-Actor-Initials
// headers set by the auth gateway, builds a guarded command, and maps the
// domain failure taxonomy to response codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/customer"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

const (
	headerActorID       = "X-Actor-Id"
	headerActorInitials = "X-Actor-Initials"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	transitionHandler  commands.TransitionOrderCommandHandler
	scanHandler        commands.ScanMachineCommandHandler
	checkHandler       commands.CheckMachineCommandHandler
	uncheckHandler     commands.UncheckMachineCommandHandler
	releaseHandler     commands.ReleaseMachineCommandHandler
	dryerHandler       commands.AdvanceDryerCommandHandler
	verifyHandler      commands.VerifyOrderStepCommandHandler
	applyCreditHandler commands.ApplyCreditCommandHandler
	refundHandler      commands.RefundCreditCommandHandler
	recalculateHandler commands.RecalculateOrderTotalCommandHandler

	// Query handlers
	activeOrdersHandler  queries.GetActiveOrdersQueryHandler
	receiptHandler       queries.GetOrderReceiptQueryHandler
	creditHistoryHandler queries.GetCreditHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	transitionHandler commands.TransitionOrderCommandHandler,
	scanHandler commands.ScanMachineCommandHandler,
	checkHandler commands.CheckMachineCommandHandler,
	uncheckHandler commands.UncheckMachineCommandHandler,
	releaseHandler commands.ReleaseMachineCommandHandler,
	dryerHandler commands.AdvanceDryerCommandHandler,
	verifyHandler commands.VerifyOrderStepCommandHandler,
	applyCreditHandler commands.ApplyCreditCommandHandler,
	refundHandler commands.RefundCreditCommandHandler,
	recalculateHandler commands.RecalculateOrderTotalCommandHandler,
	activeOrdersHandler queries.GetActiveOrdersQueryHandler,
	receiptHandler queries.GetOrderReceiptQueryHandler,
	creditHistoryHandler queries.GetCreditHistoryQueryHandler,
) *Server {
	return &Server{
		transitionHandler:    transitionHandler,
		scanHandler:          scanHandler,
		checkHandler:         checkHandler,
		uncheckHandler:       uncheckHandler,
		releaseHandler:       releaseHandler,
		dryerHandler:         dryerHandler,
		verifyHandler:        verifyHandler,
		applyCreditHandler:   applyCreditHandler,
		refundHandler:        refundHandler,
		recalculateHandler:   recalculateHandler,
		activeOrdersHandler:  activeOrdersHandler,
		receiptHandler:       receiptHandler,
		creditHistoryHandler: creditHistoryHandler,
	}
}

// RegisterRoutes attaches every operation to the echo router.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:orderID/receipt", s.GetOrderReceipt)
	api.GET("/customers/:customerID/credit", s.GetCreditHistory)

	api.POST("/orders/:orderID/transition", s.TransitionOrder)
	api.POST("/orders/:orderID/machines/scan", s.ScanMachine)
	api.POST("/orders/:orderID/machines/:machineID/check", s.CheckMachine)
	api.POST("/orders/:orderID/machines/:machineID/uncheck", s.UncheckMachine)
	api.POST("/orders/:orderID/machines/:machineID/release", s.ReleaseMachine)

	api.POST("/orders/:orderID/machines/:machineID/unload", s.dryerStep(commands.DryerStepUnload))
	api.POST("/orders/:orderID/machines/:machineID/check-unload", s.dryerStep(commands.DryerStepCheckUnload))
	api.POST("/orders/:orderID/machines/:machineID/start-folding", s.dryerStep(commands.DryerStepStartFolding))
	api.POST("/orders/:orderID/machines/:machineID/mark-folded", s.dryerStep(commands.DryerStepMarkFolded))

	api.POST("/orders/:orderID/verify/transfer", s.verifyStep(commands.VerifyStepTransfer))
	api.POST("/orders/:orderID/verify/folding-complete", s.verifyStep(commands.VerifyStepFoldingComplete))
	api.POST("/orders/:orderID/verify/final-check", s.verifyStep(commands.VerifyStepFinalCheck))

	api.POST("/orders/:orderID/credit", s.ApplyCredit)
	api.POST("/orders/:orderID/credit/refund", s.RefundCredit)
	api.POST("/orders/:orderID/recalculate", s.RecalculateTotal)
}

// TransitionOrder handles POST /api/v1/orders/:orderID/transition.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	var req struct {
		Target string `json:"target"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Status(req.Target), actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.transitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ScanMachine handles POST /api/v1/orders/:orderID/machines/scan.
func (s *Server) ScanMachine(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	var req struct {
		Code          string `json:"code"`
		BagIdentifier string `json:"bag_identifier"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewScanMachineCommand(orderID, req.Code, req.BagIdentifier, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.scanHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	if result.RequiresBagSelection {
		// The order keeps bags separated and more than one still lacks a
		// machine; the client must repeat the scan naming a bag.
		return ctx.JSON(http.StatusConflict, echo.Map{
			"requires_bag_selection": true,
			"machine_id":             result.MachineID,
			"machine_type":           result.MachineType,
		})
	}

	return ctx.JSON(http.StatusCreated, echo.Map{
		"assignment_id":  result.AssignmentID,
		"machine_id":     result.MachineID,
		"machine_type":   result.MachineType,
		"bag_identifier": result.BagIdentifier,
	})
}

// CheckMachine handles POST /api/v1/orders/:orderID/machines/:machineID/check.
func (s *Server) CheckMachine(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCheckMachineCommand(
		orderID, ctx.Param("machineID"), actor, forceFlag(ctx))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.checkHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UncheckMachine handles POST /api/v1/orders/:orderID/machines/:machineID/uncheck.
func (s *Server) UncheckMachine(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUncheckMachineCommand(orderID, ctx.Param("machineID"), actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.uncheckHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReleaseMachine handles POST /api/v1/orders/:orderID/machines/:machineID/release.
func (s *Server) ReleaseMachine(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReleaseMachineCommand(orderID, ctx.Param("machineID"), actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.releaseHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) dryerStep(step commands.DryerStep) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, actor, err := s.orderAndActor(ctx)
		if err != nil {
			return err
		}

		cmd, err := commands.NewAdvanceDryerCommand(
			orderID, ctx.Param("machineID"), step, actor, forceFlag(ctx))
		if err != nil {
			return badRequest(ctx, err.Error())
		}

		if err = s.dryerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
			return writeDomainError(ctx, err)
		}

		return ctx.NoContent(http.StatusNoContent)
	}
}

func (s *Server) verifyStep(step commands.VerifyStep) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, actor, err := s.orderAndActor(ctx)
		if err != nil {
			return err
		}

		cmd, err := commands.NewVerifyOrderStepCommand(orderID, step, actor, forceFlag(ctx))
		if err != nil {
			return badRequest(ctx, err.Error())
		}

		if err = s.verifyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
			return writeDomainError(ctx, err)
		}

		return ctx.NoContent(http.StatusNoContent)
	}
}

// ApplyCredit handles POST /api/v1/orders/:orderID/credit.
func (s *Server) ApplyCredit(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewApplyCreditCommand(orderID, req.Amount, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.applyCreditHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefundCredit handles POST /api/v1/orders/:orderID/credit/refund.
func (s *Server) RefundCredit(ctx echo.Context) error {
	orderID, actor, err := s.orderAndActor(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRefundCreditCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.refundHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecalculateTotal handles POST /api/v1/orders/:orderID/recalculate.
func (s *Server) RecalculateTotal(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req struct {
		ManualDeliveryFee float64 `json:"manual_delivery_fee"`
	}
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRecalculateOrderTotalCommand(orderID, req.ManualDeliveryFee)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.recalculateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	board, err := s.activeOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	type boardRow struct {
		ID            string  `json:"id"`
		DisplayNumber int64   `json:"display_number"`
		OrderType     string  `json:"order_type"`
		Status        string  `json:"status"`
		IsSameDay     bool    `json:"is_same_day"`
		KeepSeparated bool    `json:"keep_separated"`
		TotalAmount   float64 `json:"total_amount"`
		IsPaid        bool    `json:"is_paid"`
	}

	response := make([]boardRow, len(board))
	for i, row := range board {
		response[i] = boardRow{
			ID:            row.ID.String(),
			DisplayNumber: row.DisplayNumber,
			OrderType:     row.OrderType,
			Status:        row.Status,
			IsSameDay:     row.IsSameDay,
			KeepSeparated: row.KeepSeparated,
			TotalAmount:   row.TotalAmount,
			IsPaid:        row.IsPaid,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderReceipt handles GET /api/v1/orders/:orderID/receipt.
func (s *Server) GetOrderReceipt(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderReceiptQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	receipt, err := s.receiptHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"display_number": receipt.DisplayNumber,
		"text":           receipt.Text,
	})
}

// GetCreditHistory handles GET /api/v1/customers/:customerID/credit.
func (s *Server) GetCreditHistory(ctx echo.Context) error {
	customerID, err := pathUUID(ctx, "customerID")
	if err != nil {
		return badRequest(ctx, "Invalid customer id")
	}

	query, err := queries.NewGetCreditHistoryQuery(customerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	history, err := s.creditHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	type entryRow struct {
		Amount      float64 `json:"amount"`
		EntryType   string  `json:"entry_type"`
		Description string  `json:"description"`
		OccurredAt  string  `json:"occurred_at"`
	}

	entries := make([]entryRow, len(history.Entries))
	for i, entry := range history.Entries {
		entries[i] = entryRow{
			Amount:      entry.Amount,
			EntryType:   entry.EntryType,
			Description: entry.Description,
			OccurredAt:  entry.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"balance": history.Balance,
		"entries": entries,
	})
}

func (s *Server) orderAndActor(ctx echo.Context) (kernel.UUID, kernel.Actor, error) {
	orderID, err := pathUUID(ctx, "orderID")
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, badRequest(ctx, "Invalid order id")
	}

	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, ctx.JSON(http.StatusUnauthorized, echo.Map{
			"code":    http.StatusUnauthorized,
			"message": "Missing " + headerActorID + " header",
		})
	}

	return orderID, actor, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func actorFromHeaders(ctx echo.Context) (kernel.Actor, error) {
	return kernel.NewActor(
		ctx.Request().Header.Get(headerActorID),
		ctx.Request().Header.Get(headerActorInitials),
	)
}

func forceFlag(ctx echo.Context) bool {
	return ctx.QueryParam("force") == "true"
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, echo.Map{
		"code":    http.StatusBadRequest,
		"message": message,
	})
}

// writeDomainError maps the domain failure taxonomy to response codes.
// Conflicts that the actor can resolve by confirming carry a
// confirm_required flag so the client can offer a confirm/cancel choice.
func writeDomainError(ctx echo.Context, err error) error {
	var confirmErr *order.ConfirmationRequiredError
	if errors.As(err, &confirmErr) {
		return ctx.JSON(http.StatusConflict, echo.Map{
			"code":             http.StatusConflict,
			"message":          confirmErr.Message,
			"confirm_required": true,
		})
	}

	switch {
	case errors.Is(err, order.ErrMachineBusy),
		errors.Is(err, order.ErrDuplicateScan),
		errors.Is(err, order.ErrMachineStillChecked):
		return ctx.JSON(http.StatusConflict, echo.Map{
			"code":    http.StatusConflict,
			"message": err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrPreconditionFailed),
		errors.Is(err, order.ErrBagSelectionIsInvalid):
		return ctx.JSON(http.StatusUnprocessableEntity, echo.Map{
			"code":    http.StatusUnprocessableEntity,
			"message": err.Error(),
		})
	case errors.Is(err, customer.ErrInsufficientCredit):
		return ctx.JSON(http.StatusPaymentRequired, echo.Map{
			"code":    http.StatusPaymentRequired,
			"message": err.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, order.ErrAssignmentNotFound):
		return ctx.JSON(http.StatusNotFound, echo.Map{
			"code":    http.StatusNotFound,
			"message": err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, echo.Map{
			"code":    http.StatusBadRequest,
			"message": err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, echo.Map{
			"code":    http.StatusInternalServerError,
			"message": "Internal server error",
		})
	}
}
