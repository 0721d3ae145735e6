package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/storefront-client/api/responses"
	"github.com/angelmondragon/storefront-client/api/validators"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
)

// CatalogService is the read-only product surface of the sandbox.
type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
}

type productResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"titulo"`
	Description string      `json:"descricao"`
	Photos      []string    `json:"fotos"`
	Price       json.Number `json:"preco"`
	Quantity    int         `json:"quantidade"`
}

func toProductResponse(p models.Product) productResponse {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Photos:      photos,
		Price:       json.Number(p.Price.StringFixed(2)),
		Quantity:    p.Quantity,
	}
}

// ProductsList handles GET /products.
func ProductsList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		responses.WriteJSON(w, http.StatusOK, out)
	}
}

// ProductsGet handles GET /products/{id}.
func ProductsGet(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, toProductResponse(*product))
	}
}
