// Package catalog отдаёт публичные страницы со статическим каталогом.
package catalog

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// LandingResponse данные главной страницы.
type LandingResponse struct {
	Session  models.Session     `json:"session"`
	Merch    []models.MerchItem `json:"merch"`
	Events   []models.Event     `json:"events"`
	Mixtapes []models.Mixtape   `json:"mixtapes"`
}

// Landing godoc
// @Summary Главная страница
// @Tags Catalog
// @Produce json
// @Success 200 {object} LandingResponse
// @Router / [get]
func Landing(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, LandingResponse{
		Session:  middlewarectx.SessionFrom(r.Context()),
		Merch:    catalog.Merch(),
		Events:   catalog.Events(),
		Mixtapes: catalog.HomepageMixtapes(),
	})
}

// Merch godoc
// @Summary Товары витрины
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.MerchItem
// @Router /merch [get]
func Merch(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, catalog.Merch())
}

// Events godoc
// @Summary VIP-события
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Event
// @Router /events [get]
func Events(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, catalog.Events())
}
