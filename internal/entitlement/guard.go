// Package entitlement решает, может ли сессия открыть страницу.
package entitlement

import "github.com/magabrotheeeer/coffeehouse/internal/models"

// Идентификаторы страниц.
const (
	RouteLanding         = "landing"
	RouteMembers         = "members"
	RouteDashboard       = "dashboard"
	RouteRadioArchive    = "radio-archive"
	RouteAskReg          = "ask-reg"
	RouteLive            = "live"
	RoutePurchaseSuccess = "purchase-success"
)

// LandingPath публичная страница, на которую уходит отказ в доступе.
const LandingPath = "/"

var protected = map[string]struct{}{
	RouteMembers:      {},
	RouteDashboard:    {},
	RouteRadioArchive: {},
	RouteAskReg:       {},
}

// IsProtected сообщает, требует ли страница входа.
func IsProtected(route string) bool {
	_, ok := protected[route]
	return ok
}

// CanAccess возвращает true, если страница публичная или сессия вошла в систему.
func CanAccess(route string, sess models.Session) bool {
	if !IsProtected(route) {
		return true
	}
	return sess.IsAuthenticated && sess.Email != ""
}
