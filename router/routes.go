package router

// Route path constants
// Every view is addressed by one of these paths; CLI commands are bound to them
const (
	// Public Routes
	RouteHome          = "/"
	RouteLogin         = "/login"
	RouteAnnouncements = "/announcements"

	// User Routes
	RouteProfile    = "/profile"
	RouteClassrooms = "/classrooms"
	RouteSchedule   = "/schedule"
	RouteBooking    = "/booking"
	RouteRecord     = "/record"

	// Admin Routes
	RouteAdmin          = "/admin"
	RouteAdminBookings  = "/admin/bookings"
	RouteAdminBlacklist = "/admin/blacklist"

	// Query parameter carrying the originally requested path to the login view
	RedirectParam = "redirect"
)

// PublicRoutes are reachable without a session
var PublicRoutes = []string{RouteHome, RouteLogin, RouteAnnouncements}
