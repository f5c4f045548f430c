package courseRoutes

import (
	controllers "elearn/controllers/course"
	"elearn/middleware"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog, public. The detail view personalizes the purchase state when
	// a valid token is presented but never requires one.
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:courseId", middleware.OptionalJWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Learning console (for enrolled users)
	courseGroup.Get("/:courseId/content", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseContent)
	courseGroup.Post("/:courseId/lesson/:lessonId/access", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.AccessLesson)
	courseGroup.Post("/:courseId/lesson/:lessonId/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.MarkLessonComplete)

	// Module quizzes
	courseGroup.Get("/module/:moduleId/quiz", middleware.JWTMiddleware, validators.ModuleID(), controllers.GetModuleQuiz)
	courseGroup.Post("/module/:moduleId/quiz/submit", middleware.JWTMiddleware, validators.ModuleID(), validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Certificates
	courseGroup.Post("/:courseId/certificate/request", middleware.JWTMiddleware, validators.CourseID(), validators.RequestCertificate(), controllers.RequestCertificate)
	courseGroup.Get("/:courseId/certificate", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCertificateRequest)
}
