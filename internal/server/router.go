// Package server exposes the sales core over HTTP for the register UI.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts. Customers is optional;
// the customer routes are only registered when a directory is configured.
type Handlers struct {
	Cart      *CartHandler
	Park      *ParkHandler
	Checkout  *CheckoutHandler
	Ledger    *LedgerHandler
	Catalog   *CatalogHandler
	Customers *CustomerHandler
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{itemID}/quantity", h.Cart.UpdateQuantity)
			r.Delete("/items/{itemID}", h.Cart.RemoveItem)
			r.Post("/items/{itemID}/modifiers", h.Cart.AddModifier)
			r.Delete("/items/{itemID}/modifiers/{modifierID}", h.Cart.RemoveModifier)
			r.Put("/items/{itemID}/discount", h.Cart.ApplyItemDiscount)
			r.Delete("/items/{itemID}/discount", h.Cart.RemoveItemDiscount)
			r.Put("/items/{itemID}/price", h.Cart.SetPriceOverride)
			r.Put("/discount", h.Cart.ApplyOrderDiscount)
			r.Delete("/discount", h.Cart.RemoveOrderDiscount)
			r.Put("/customer", h.Cart.SetCustomer)
			r.Put("/notes", h.Cart.SetNotes)
		})

		r.Route("/parked-sales", func(r chi.Router) {
			r.Get("/", h.Park.List)
			r.Post("/", h.Park.Park)
			r.Post("/{parkID}/resume", h.Park.Resume)
			r.Delete("/{parkID}", h.Park.Delete)
		})

		r.Post("/checkout", h.Checkout.Checkout)
		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Get("/status", h.Checkout.Status)
			r.Post("/cancel", h.Checkout.Cancel)
			r.Post("/refund", h.Checkout.Refund)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.Ledger.List)
			r.Post("/cash-in", h.Ledger.CashIn)
			r.Post("/cash-out", h.Ledger.CashOut)
			r.Post("/flush", h.Ledger.Flush)
			r.Delete("/", h.Ledger.Clear)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListProducts)
			r.Post("/", h.Catalog.SaveProduct)
			r.Get("/{productID}", h.Catalog.GetProduct)
		})

		if h.Customers != nil {
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.Customers.Search)
				r.Post("/", h.Customers.Create)
				r.Get("/{customerID}", h.Customers.Get)
				r.Post("/{customerID}/loyalty", h.Customers.AdjustLoyalty)
			})
		}
	})

	return r
}
