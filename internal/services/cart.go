package service

import (
	"context"

	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
)

// CartService operates on the cart held by the caller's session. Every mutation marks the
// session modified so the middleware persists it.
type CartService interface {
	GetCart(sess *session.Session) *models.CartResponse
	AddItem(ctx context.Context, sess *session.Session, req *models.AddItemRequest) (*models.CartResponse, error)
	UpdateQuantity(ctx context.Context, sess *session.Session, req *models.UpdateQuantityRequest) (*models.CartResponse, error)
	ClearCart(sess *session.Session) *models.CartResponse
}

type cartService struct {
	products ProductService
}

func NewCartService(products ProductService) CartService {
	return &cartService{products: products}
}

func (s *cartService) GetCart(sess *session.Session) *models.CartResponse {
	return models.NewCartResponse(&sess.Cart)
}

// AddItem increments an existing line or appends a new one. Name and price are taken from
// the catalog the first time the product enters the cart and are not refreshed afterwards.
func (s *cartService) AddItem(ctx context.Context, sess *session.Session, req *models.AddItemRequest) (*models.CartResponse, error) {

	if req.Quantity < 1 {
		return nil, errors.AddValidationError("quantity", "must be at least 1")
	}

	cart := &sess.Cart

	if i := cart.Find(req.ProductID); i >= 0 {
		cart.Items[i].Quantity = models.AddQuantity(cart.Items[i].Quantity, req.Quantity)
		sess.MarkModified()

		return models.NewCartResponse(cart), nil
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart.Items = append(cart.Items, models.CartItem{
		ProductID: product.ID,
		Quantity:  req.Quantity,
		Name:      product.Name,
		Price:     product.Price,
	})
	sess.MarkModified()

	return models.NewCartResponse(cart), nil
}

// UpdateQuantity sets the absolute quantity of a line. Zero or less removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, sess *session.Session, req *models.UpdateQuantityRequest) (*models.CartResponse, error) {

	cart := &sess.Cart

	i := cart.Find(req.ProductID)
	if i < 0 {
		return nil, errors.NotFoundError("Item not in cart")
	}

	if req.Quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = req.Quantity
	}
	sess.MarkModified()

	return models.NewCartResponse(cart), nil
}

func (s *cartService) ClearCart(sess *session.Session) *models.CartResponse {
	if len(sess.Cart.Items) > 0 {
		sess.Cart = models.Cart{}
		sess.MarkModified()
	}

	return models.NewCartResponse(&sess.Cart)
}
