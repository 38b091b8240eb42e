package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencecomx/sourcing-backend/internal/containers"
	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/pkg/currency"
	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

// Actor identifies the authenticated caller for order operations.
type Actor struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

// Service exposes order placement and retrieval.
type Service interface {
	PlaceOrder(ctx context.Context, actor Actor, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, actor Actor, limit int) ([]OrderDTO, error)
}

// ContainerRequest ties one quote line to a shipment container.
type ContainerRequest struct {
	ContainerID uuid.UUID
	ProductID   uuid.UUID
	CapacityCBM float64
}

// PlaceOrderInput holds the validated payload to place an order.
type PlaceOrderInput struct {
	// Currency defaults to the base currency when empty.
	Currency  string
	Container *ContainerRequest
}

type admitter interface {
	AdmitInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, input containers.AdmitInput) (*containers.AdmissionResultDTO, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, link *string) error
}

type service struct {
	repo     *Repository
	quotes   *quotes.Manager
	admitter admitter
	notifier notifier
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, quoteManager *quotes.Manager, admitter admitter, notifier notifier, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if quoteManager == nil {
		return nil, fmt.Errorf("quote manager required")
	}
	if admitter == nil {
		return nil, fmt.Errorf("container admitter required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		quotes:   quoteManager,
		admitter: admitter,
		notifier: notifier,
		dbClient: dbClient,
		logg:     logg,
	}, nil
}

// PlaceOrder turns the buyer's quote into an order. Lines are repriced from
// their snapshots, MOQs re-validated, and the order plus line items written in
// one transaction. When a line targets a container the admission runs in the
// same transaction, so a rolled back order never holds capacity.
func (s *service) PlaceOrder(ctx context.Context, actor Actor, input PlaceOrderInput) (*OrderDTO, error) {
	if actor.Role != enums.MemberRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers place orders")
	}

	currencyCode := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currencyCode == "" {
		currencyCode = currency.BaseCurrency
	}
	if !currency.Supported(currencyCode) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}

	store := s.quotes.StoreFor(ctx, actor.UserID)
	items := store.Items()
	if err := validateQuoteLines(items); err != nil {
		return nil, err
	}
	if err := validateContainerRequest(input.Container, items); err != nil {
		return nil, err
	}

	priced, err := priceQuote(items, currencyCode)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID:       actor.UserID,
		Status:        enums.OrderStatusPending,
		Currency:      currencyCode,
		Subtotal:      priced.Subtotal,
		DiscountTotal: priced.DiscountTotal,
		Total:         priced.Total,
		LineItems:     priced.Lines,
	}
	if input.Container != nil {
		order.ContainerID = &input.Container.ContainerID
	}

	var admission *containers.AdmissionResultDTO
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		if input.Container != nil {
			result, err := s.admitter.AdmitInTx(ctx, tx, actor.UserID, containers.AdmitInput{
				ContainerID: input.Container.ContainerID,
				ProductID:   input.Container.ProductID,
				Quantity:    input.Container.CapacityCBM,
			})
			if err != nil {
				return err
			}
			admission = result
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	// Best effort after commit. The order stands either way.
	if err := store.Clear(ctx); err != nil {
		s.logg.Error(ctx, "clearing quote after order placement", err)
	}
	s.notifyPlaced(ctx, actor.UserID, order, admission)

	dto := NewOrderDTO(order)
	dto.Admission = admission
	return dto, nil
}

// GetOrder loads one order for its owning buyer. Admins see any order.
func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if actor.Role != enums.MemberRoleAdmin && order.BuyerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

// ListOrders returns the caller's orders, newest first.
func (s *service) ListOrders(ctx context.Context, actor Actor, limit int) ([]OrderDTO, error) {
	ordersList, err := s.repo.ListByBuyer(ctx, actor.UserID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, len(ordersList))
	for i := range ordersList {
		dtos[i] = *NewOrderDTO(&ordersList[i])
	}
	return dtos, nil
}

func (s *service) notifyPlaced(ctx context.Context, userID uuid.UUID, order *models.Order, admission *containers.AdmissionResultDTO) {
	message := fmt.Sprintf("Order for %s %s was placed and is pending confirmation.", order.Total.RoundBank(2), order.Currency)
	if admission != nil && admission.PartiallyAdmitted {
		message = fmt.Sprintf("%s Only %.2f of %.2f CBM fit in the selected container.",
			message, admission.AdmittedQuantity, admission.RequestedQuantity)
	}
	link := fmt.Sprintf("/orders/%s", order.ID)
	if err := s.notifier.Notify(ctx, userID, "order_placed", "Order placed", message, &link); err != nil {
		s.logg.Error(ctx, "sending order notification", err)
	}
}

func validateContainerRequest(request *ContainerRequest, items []quotes.QuoteItem) error {
	if request == nil {
		return nil
	}
	if request.ContainerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "container id is required")
	}
	if request.CapacityCBM <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "container capacity must be positive")
	}
	for _, item := range items {
		if item.Snapshot.ProductID == request.ProductID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "container product is not in the quote")
}
