package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/controllers"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/middleware"
	"github.com/yigit/campusdesk/internal/pkg/websocket"
)

// CollectionHandlers is the CRUD surface of one cached collection
type CollectionHandlers interface {
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

// Controllers groups every controller the router needs
type Controllers struct {
	Auth     *controllers.AuthController
	Academic *controllers.AcademicController
	Users    *controllers.UserController
	Facility *controllers.FacilityController
	Billing  *controllers.BillingController
	Cache    *controllers.CacheController
	Live     *websocket.Handler

	// Collections maps a collection path (courses, intake-courses, ...) to its handlers
	Collections map[string]CollectionHandlers
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", ctrl.Cache.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.Cache.Health)

	// --- Public Auth routes (relayed to the backend) ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/is-auth", ctrl.Auth.IsAuth)
		auth.POST("/google-validate", ctrl.Auth.GoogleValidate)
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleSchoolAdmin)))

	for path, handlers := range ctrl.Collections {
		registerCollection(authenticated, admin, path, handlers)
	}

	// Derived views
	authenticated.GET("/courses/:id/modules/count", ctrl.Academic.ModuleCount)
	authenticated.GET("/modules/:id/courses", ctrl.Academic.ModuleCourses)
	authenticated.GET("/modules/:id/prerequisite-options", ctrl.Academic.PrerequisiteOptions)
	authenticated.GET("/modules/:id/lecturers/count", ctrl.Academic.LecturerCount)
	authenticated.GET("/intake-courses/:id/students", ctrl.Academic.Students)
	authenticated.GET("/departments/:id/lecturers", ctrl.Academic.Lecturers)
	authenticated.GET("/resources/:id/bookings", ctrl.Facility.ResourceBookings)
	authenticated.GET("/bookings/:id/cost", ctrl.Facility.BookingCost)
	authenticated.GET("/students/:id/balance", ctrl.Billing.StudentBalance)
	authenticated.GET("/cache", ctrl.Cache.States)
	authenticated.GET("/ws", ctrl.Live.HandleConnection)

	// Admin actions
	admin.POST("/lecturers/:id/office-hours", ctrl.Academic.AddOfficeHour)
	admin.PATCH("/users/:id/active", ctrl.Users.SetActive)
	admin.PATCH("/bookings/:id/status", ctrl.Facility.UpdateStatus)
	admin.POST("/billing/:id/pay", ctrl.Billing.MarkPaid)
	admin.POST("/refresh", ctrl.Cache.Refresh)
}

// registerCollection mounts reads for every signed-in user and writes for admins
func registerCollection(read, write *gin.RouterGroup, path string, h CollectionHandlers) {
	read.GET("/"+path, h.List)
	read.GET("/"+path+"/:id", h.Get)
	write.POST("/"+path, h.Create)
	write.PUT("/"+path+"/:id", h.Update)
	write.DELETE("/"+path+"/:id", h.Delete)
}
