package presets

import (
	"net/http"

	"stock-service/internal/access"
	"stock-service/internal/auth"
)

// StockManagement returns the ordered rule table of the stock-management API.
// Narrow exceptions come before the broad rules that would otherwise shadow them.
func StockManagement() []access.Rule {
	get := []string{http.MethodGet}
	public := access.Public()
	authenticated := access.Authenticated()
	admin := access.AnyRole(auth.RoleAdmin)
	delivery := access.AnyRole(auth.RoleDeliveryMan, auth.RoleAdmin)

	return []access.Rule{
		// infrastructure
		{Pattern: "/", Requirement: public},
		{Pattern: "/health", Requirement: public},
		{Pattern: "/actuator/health", Requirement: public},
		{Pattern: "/error", Requirement: public},
		{Pattern: "/favicon.ico", Requirement: public},
		{Pattern: "/oauth2/**", Requirement: public},
		{Pattern: "/login/oauth2/**", Requirement: public},

		// auth
		{Pattern: "/api/auth/admin/login", Requirement: public},
		{Pattern: "/api/auth/admin/proof-documents/**", Requirement: authenticated},
		{Pattern: "/api/auth/admin/**", Requirement: admin},
		{Pattern: "/api/auth/profile/photo/**", Methods: get, Requirement: public},
		{Pattern: "/api/auth/profile", Requirement: authenticated},
		{Pattern: "/api/auth/profile/**", Requirement: authenticated},
		{Pattern: "/api/auth/change-password", Requirement: authenticated},
		{Pattern: "/api/auth/me", Requirement: authenticated},
		{Pattern: "/api/auth/**", Requirement: public},

		// catalogue
		{Pattern: "/api/products/upload", Requirement: authenticated},
		{Pattern: "/api/products", Methods: get, Requirement: public},
		{Pattern: "/api/products/*", Methods: get, Requirement: public},
		{Pattern: "/api/products/images/**", Methods: get, Requirement: public},
		{Pattern: "/api/products/**", Requirement: admin},
		{Pattern: "/api/reviews/product/**", Methods: get, Requirement: public},

		// order tracking
		{Pattern: "/api/orders/*/tracking", Requirement: public},
		{Pattern: "/api/orders/*/location-tracking", Requirement: public},
		{Pattern: "/api/orders/by-order-number/**", Requirement: public},
		{Pattern: "/api/orders/by-tracking-id/**", Requirement: public},

		// customer
		{Pattern: "/api/reviews/**", Requirement: authenticated},
		{Pattern: "/api/cart/**", Requirement: authenticated},
		{Pattern: "/api/orders/customer/me", Requirement: authenticated},
		{Pattern: "/api/orders/all", Requirement: admin},
		{Pattern: "/api/orders/customer/**", Requirement: admin},
		{Pattern: "/api/orders/**", Requirement: authenticated},

		// staff
		{Pattern: "/api/delivery/**", Requirement: delivery},
		{Pattern: "/api/admin/**", Requirement: admin},
	}
}
