package sandbox

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-client/internal/cart"
	"github.com/angelmondragon/storefront-client/internal/orders"
	checkoutrules "github.com/angelmondragon/storefront-client/pkg/checkout"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	"github.com/angelmondragon/storefront-client/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CheckoutReceipt is the body of a successful POST /orders/checkout.
type CheckoutReceipt struct {
	OrderID        int64   `json:"orderId"`
	Status         string  `json:"status"`
	PaymentLink    *string `json:"paymentLink"`
	InvoiceURL     *string `json:"invoiceUrl"`
	PixQrCodeImage *string `json:"pixQrCodeImage"`
	PixCopyPaste   *string `json:"pixCopyPaste"`
}

// OrderService validates checkouts against the catalog and records orders.
type OrderService struct {
	tx       txRunner
	repo     *Repository
	payments *PaymentIssuer
	logg     *logger.Logger
}

func NewOrderService(tx txRunner, repo *Repository, payments *PaymentIssuer, logg *logger.Logger) *OrderService {
	return &OrderService{tx: tx, repo: repo, payments: payments, logg: logg}
}

// Checkout places an order for the authenticated user. The amount must match
// the catalog total at cent precision and every product must be in stock.
func (s *OrderService) Checkout(ctx context.Context, authUserID int64, req orders.CheckoutRequest) (CheckoutReceipt, error) {
	if req.UserID != 0 && req.UserID != authUserID {
		return CheckoutReceipt{}, pkgerrors.New(pkgerrors.CodeForbidden, "checkout userId does not match authenticated user")
	}
	if !req.PaymentMethod.IsValid() {
		return CheckoutReceipt{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return CheckoutReceipt{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "amount must be a decimal number")
	}
	if err := validateItems(req.ProductIDs); err != nil {
		return CheckoutReceipt{}, err
	}

	var receipt CheckoutReceipt
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		lines, err := s.priceLines(ctx, repo, req.ProductIDs)
		if err != nil {
			return err
		}
		if err := checkoutrules.ValidateLines(lines); err != nil {
			return err
		}
		total := checkoutrules.Total(lines)
		if err := checkoutrules.ValidateAmount(amount, total); err != nil {
			return err
		}

		for _, line := range lines {
			ok, err := repo.DecrementStock(ctx, line.ProductID, line.Requested)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for product %d", line.ProductID))
			}
		}

		bill, err := s.payments.Issue(req.PaymentMethod, total)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue payment")
		}
		order := &models.Order{
			UserID:         authUserID,
			ProductIDs:     append([]int64{}, req.ProductIDs...),
			TotalPrice:     total.Round(2),
			PaymentMethod:  req.PaymentMethod,
			Status:         enums.OrderStatusPending,
			PaymentLink:    bill.PaymentLink,
			InvoiceURL:     bill.InvoiceURL,
			PixQrCodeImage: bill.PixQrCodeImage,
			PixCopyPaste:   bill.PixCopyPaste,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		link := bill.PaymentLink
		if link == nil {
			link = bill.InvoiceURL
		}
		receipt = CheckoutReceipt{
			OrderID:        order.ID,
			Status:         string(order.Status),
			PaymentLink:    link,
			InvoiceURL:     bill.InvoiceURL,
			PixQrCodeImage: bill.PixQrCodeImage,
			PixCopyPaste:   bill.PixCopyPaste,
		}
		return nil
	})
	if err != nil {
		return CheckoutReceipt{}, err
	}

	ctx = s.logg.WithFields(s.logg.WithUserID(ctx, authUserID), map[string]any{
		"order_id":       receipt.OrderID,
		"payment_method": req.PaymentMethod,
	})
	s.logg.Info(ctx, "sandbox.order_created")
	return receipt, nil
}

func (s *OrderService) priceLines(ctx context.Context, repo *Repository, productIDs []int64) ([]checkoutrules.LineInput, error) {
	wanted := cart.Lines(productIDs)
	ids := make([]int64, 0, len(wanted))
	for _, line := range wanted {
		ids = append(ids, line.ProductID)
	}
	found, err := repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[int64]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	lines := make([]checkoutrules.LineInput, 0, len(wanted))
	for _, line := range wanted {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product not found: %d", line.ProductID))
		}
		lines = append(lines, checkoutrules.LineInput{
			ProductID: product.ID,
			Price:     product.Price,
			Available: product.Quantity,
			Requested: line.Quantity,
		})
	}
	return lines, nil
}
