package userRoutes

import (
	courseControllers "elearn/controllers/course"
	userControllers "elearn/controllers/user"
	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/dashboard", middleware.JWTMiddleware, userControllers.Dashboard)
	userGroup.Get("/certificates", middleware.JWTMiddleware, courseControllers.GetUserCertificates)
}
