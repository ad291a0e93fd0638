package middleware

import (
	"net"
	"regexp"
	"strings"

	"school-service/pkg/database"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Context keys for the tenant binding attached by Tenant
const (
	TenantDBContextKey   = "tenant_db"
	TenantNameContextKey = "tenant_name"
)

var schoolIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ResolveTenant produces the tenant database name for a request, or "" for
// control-plane requests. Signals are considered in order, first match wins:
//
//  1. the X-School-ID header
//  2. a verified school token attached by the auth middleware
//  3. the leading host label, unless empty or "localhost"
//
// The resolver never errors; its contract is tenant or none.
func ResolveTenant(c echo.Context) (name, source string) {
	if id := c.Request().Header.Get("X-School-ID"); id != "" && schoolIDPattern.MatchString(id) {
		return database.SchoolDBName(id), "header"
	}

	if claims, ok := SchoolFrom(c); ok && claims.DatabaseName != "" {
		return claims.DatabaseName, "school_token"
	}

	host := c.Request().Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	label := strings.Split(host, ".")[0]
	if label != "" && label != "localhost" && schoolIDPattern.MatchString(label) {
		return database.SchoolDBName(label), "subdomain"
	}

	return "", "none"
}

// Tenant attaches the tenant database handle and name to the request when a
// tenant is resolvable. It always forwards; handlers on control-plane routes
// simply see no tenant binding.
func Tenant(mgr *database.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name, source := ResolveTenant(c)
			prometheus.RecordTenantResolution(source)

			if name != "" {
				c.Set(TenantDBContextKey, mgr.Tenant(name))
				c.Set(TenantNameContextKey, name)
				prometheus.TenantHandleGauge.Set(float64(mgr.TenantCount()))
			}

			return next(c)
		}
	}
}

// TenantDBFrom returns the tenant database handle attached to the request
func TenantDBFrom(c echo.Context) (*mongo.Database, bool) {
	db, ok := c.Get(TenantDBContextKey).(*mongo.Database)
	return db, ok
}

// TenantNameFrom returns the resolved tenant database name
func TenantNameFrom(c echo.Context) (string, bool) {
	name, ok := c.Get(TenantNameContextKey).(string)
	return name, ok
}
