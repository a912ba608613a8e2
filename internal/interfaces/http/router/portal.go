package router

import (
	"github.com/emlak/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// AdminPrefix separates the back office routes from the public routes that
// share their resource paths
const AdminPrefix = "/admin"

// Handlers are the HTTP handlers of the portal API
type Handlers struct {
	Auth         *handler.AuthHandler
	Listing      *handler.ListingHandler
	ListingAdmin *handler.ListingAdminHandler
	Branch       *handler.BranchHandler
	Consultant   *handler.ConsultantHandler
	Location     *handler.LocationHandler
	Attribute    *handler.AttributeHandler
	Site         *handler.SiteHandler
	Request      *handler.CustomerRequestHandler
	System       *handler.SystemHandler
}

// Guards are the access middleware of the portal routes. Authenticate
// must be set; nil limiters are skipped.
type Guards struct {
	// Authenticate resolves the bearer session
	Authenticate gin.HandlerFunc
	// Staff admits every back office role, Admin only administrators
	Staff gin.HandlerFunc
	Admin gin.HandlerFunc
	// AuthLimit throttles login and refresh
	AuthLimit gin.HandlerFunc
	// SubmitLimit throttles the public customer request form
	SubmitLimit gin.HandlerFunc
}

// PortalGroups builds the domain groups of the public site and the back
// office.
func PortalGroups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		listingGroup(h),
		branchGroup(h),
		consultantGroup(h),
		locationGroup(h),
		attributeGroup(h),
		siteGroup(h),
		requestGroup(h, g),
		authGroup(h, g),
		systemGroup(h),
		adminGroup(h, g),
	}
}

// RegisterPortal registers the portal groups on r
func RegisterPortal(r *Router, h Handlers, g Guards) {
	for _, group := range PortalGroups(h, g) {
		r.Register(group)
	}
}

// chain prepends the non-nil middleware to the handler
func chain(h gin.HandlerFunc, middleware ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	for _, m := range middleware {
		if m != nil {
			out = append(out, m)
		}
	}
	return append(out, h)
}

func listingGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("listings", "/listings")
	g.GET("", h.Listing.Search)
	g.GET("/opportunities", h.Listing.Opportunities)
	g.GET("/map", h.Listing.Map)
	g.GET("/slug/:slug", h.Listing.GetBySlug)
	g.GET("/:id", h.Listing.GetByID)
	g.GET("/:id/brochure", h.Listing.Brochure)
	return g
}

func branchGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("branches", "/branches")
	g.GET("", h.Branch.ListPublic)
	g.GET("/slug/:slug", h.Branch.GetBySlug)
	g.GET("/slug/:slug/listings", h.Listing.BranchShowcase)
	return g
}

func consultantGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("consultants", "/consultants")
	g.GET("", h.Consultant.ListPublic)
	g.GET("/slug/:slug", h.Consultant.GetBySlug)
	return g
}

func locationGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("locations", "")
	g.GET("/cities", h.Location.ListCities)
	g.GET("/districts", h.Location.ListDistricts)
	g.GET("/neighborhoods", h.Location.ListNeighborhoods)
	return g
}

func attributeGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("listing-attributes", "/listing-attributes")
	g.GET("", h.Attribute.List)
	g.GET("/schema/:category", h.Attribute.Schema)
	return g
}

func siteGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("site", "")
	g.GET("/settings", h.Site.GetSettings)
	g.GET("/pages/slug/:slug", h.Site.GetPageBySlug)
	return g
}

func requestGroup(h Handlers, guards Guards) *DomainGroup {
	g := NewDomainGroup("requests", "/requests")
	g.POST("/customer", chain(h.Request.Submit, guards.SubmitLimit)...)
	return g
}

func authGroup(h Handlers, guards Guards) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", chain(h.Auth.Login, guards.AuthLimit)...)
	g.POST("/refresh", chain(h.Auth.Refresh, guards.AuthLimit)...)

	session := g.Group("auth-session", "").Use(guards.Authenticate)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)
	return g
}

func systemGroup(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	g.GET("/ping", h.System.Ping)
	return g
}

// adminGroup holds the back office. Consultants manage listings; every
// other resource needs an administrator.
func adminGroup(h Handlers, guards Guards) *DomainGroup {
	admin := NewDomainGroup("admin", AdminPrefix).Use(guards.Authenticate)

	listings := admin.Group("admin-listings", "/listings").Use(guards.Staff)
	listings.GET("", h.ListingAdmin.List)
	listings.POST("", h.ListingAdmin.Create)
	listings.GET("/:id", h.ListingAdmin.GetByID)
	listings.PATCH("/:id", h.ListingAdmin.Update)
	listings.DELETE("/:id", h.ListingAdmin.Delete)
	listings.POST("/:id/publish", h.ListingAdmin.Publish)
	listings.POST("/:id/archive", h.ListingAdmin.Archive)
	listings.POST("/:id/images", h.ListingAdmin.AddImage)
	listings.DELETE("/:id/images/:imageId", h.ListingAdmin.RemoveImage)

	branches := admin.Group("admin-branches", "/branches").Use(guards.Admin)
	branches.GET("", h.Branch.List)
	branches.POST("", h.Branch.Create)
	branches.GET("/:id", h.Branch.GetByID)
	branches.PATCH("/:id", h.Branch.Update)
	branches.DELETE("/:id", h.Branch.Delete)
	branches.POST("/:id/image", h.Branch.UploadImage)

	consultants := admin.Group("admin-consultants", "/consultants").Use(guards.Admin)
	consultants.GET("", h.Consultant.List)
	consultants.POST("", h.Consultant.Create)
	consultants.GET("/:id", h.Consultant.GetByID)
	consultants.PATCH("/:id", h.Consultant.Update)
	consultants.DELETE("/:id", h.Consultant.Delete)
	consultants.POST("/:id/photo", h.Consultant.UploadPhoto)

	cities := admin.Group("admin-cities", "/cities").Use(guards.Admin)
	cities.POST("", h.Location.CreateCity)
	cities.GET("/:id", h.Location.GetCity)
	cities.PATCH("/:id", h.Location.UpdateCity)
	cities.DELETE("/:id", h.Location.DeleteCity)

	districts := admin.Group("admin-districts", "/districts").Use(guards.Admin)
	districts.POST("", h.Location.CreateDistrict)
	districts.PATCH("/:id", h.Location.UpdateDistrict)
	districts.DELETE("/:id", h.Location.DeleteDistrict)

	neighborhoods := admin.Group("admin-neighborhoods", "/neighborhoods").Use(guards.Admin)
	neighborhoods.POST("", h.Location.CreateNeighborhood)
	neighborhoods.PATCH("/:id", h.Location.UpdateNeighborhood)
	neighborhoods.DELETE("/:id", h.Location.DeleteNeighborhood)

	attributes := admin.Group("admin-listing-attributes", "/listing-attributes").Use(guards.Admin)
	attributes.POST("", h.Attribute.Create)
	attributes.GET("/:id", h.Attribute.GetByID)
	attributes.PATCH("/:id", h.Attribute.Update)
	attributes.DELETE("/:id", h.Attribute.Delete)

	site := admin.Group("admin-site", "").Use(guards.Admin)
	site.PATCH("/settings", h.Site.UpdateSettings)
	site.GET("/pages", h.Site.ListPages)
	site.POST("/pages", h.Site.CreatePage)
	site.GET("/pages/:id", h.Site.GetPage)
	site.PATCH("/pages/:id", h.Site.UpdatePage)
	site.DELETE("/pages/:id", h.Site.DeletePage)

	requests := admin.Group("admin-requests", "/requests/customer").Use(guards.Staff)
	requests.GET("", h.Request.List)
	requests.GET("/:id", h.Request.GetByID)
	requests.PATCH("/:id/status", h.Request.ChangeStatus)

	return admin
}
