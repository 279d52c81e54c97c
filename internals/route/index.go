package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kursusku_backend/internals/configs"
	"kursusku_backend/internals/constants"
	courseRoutes "kursusku_backend/internals/features/courses/courses/route"
	enrollmentRoutes "kursusku_backend/internals/features/courses/enrollments/route"
	reviewRoutes "kursusku_backend/internals/features/courses/reviews/route"
	checkoutRoutes "kursusku_backend/internals/features/payments/checkouts/route"
	authRoutes "kursusku_backend/internals/features/users/auth/route"
	userRepo "kursusku_backend/internals/features/users/users/repository"
	userRoutes "kursusku_backend/internals/features/users/users/route"
	userSvc "kursusku_backend/internals/features/users/users/service"
	"kursusku_backend/internals/middlewares"
	authMiddleware "kursusku_backend/internals/middlewares/auth"
)

// redis-backed enroll limiter when available; closed from main on shutdown
var enrollRedisLimiter *middlewares.RedisRateLimiter

func CloseRateLimiter() {
	if enrollRedisLimiter != nil {
		enrollRedisLimiter.Close()
	}
}

// enrollBurstLimiter prefers the shared Redis window so the cap holds across
// replicas; a single node falls back to the in-memory limiter.
func enrollBurstLimiter() fiber.Handler {
	if configs.RedisAddr != "" {
		rl, err := middlewares.NewRedisRateLimiter(configs.RedisAddr, configs.RedisPassword, 0)
		if err == nil {
			enrollRedisLimiter = rl
			log.Println("[INFO] Enroll limiter: redis fixed-window")
			return rl.EnrollBurstLimiter(10, time.Minute)
		}
		log.Printf("[WARN] Redis limiter unavailable (%v); using in-memory limiter", err)
	}
	return middlewares.EnrollRateLimiter()
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// role lookups hit storage per request; tokens only carry identity
	roleSource := userSvc.NewRoleService(userRepo.NewUserRepository(db))

	jwtOpts := authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoutes.AuthRoutes(app, db)

	// ===================== PUBLIC (JWT optional) =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public",
		authMiddleware.AuthJWTOptional(jwtOpts),
		authMiddleware.WithUserRoleLenient(roleSource),
	)
	courseRoutes.CoursePublicRoutes(public, db)
	reviewRoutes.ReviewPublicRoutes(public, db)

	// ===================== USER =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.WithUserRole(roleSource),
	)
	userRoutes.UserSelfRoutes(user, db)
	enrollmentRoutes.EnrollmentUserRoutes(user, db, enrollBurstLimiter())
	reviewRoutes.ReviewUserRoutes(user, db)
	checkoutRoutes.CheckoutUserRoutes(user, db)

	// ===================== INSTRUCTOR =====================
	log.Println("[INFO] Setting up INSTRUCTOR group...")
	instructor := app.Group("/api/i",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.WithUserRole(roleSource),
		authMiddleware.OnlyRoles(constants.RoleErrorInstructor("instructor tools"), constants.InstructorAndAbove...),
	)
	courseRoutes.CourseInstructorRoutes(instructor, db, configs.UploadDir)
	enrollmentRoutes.EnrollmentInstructorRoutes(instructor, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.WithUserRole(roleSource),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("admin tools"), constants.AdminOnly...),
	)
	courseRoutes.CourseAdminRoutes(admin, db, configs.UploadDir)
	userRoutes.UserAdminRoutes(admin, db)
}
