package adminRoutes

import (
	adminControllers "elearn/controllers/admin"
	editorControllers "elearn/controllers/editor"
	"elearn/middleware"
	adminValidators "elearn/validators/admin"
	editorValidators "elearn/validators/editor"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the back-office routes. Everything here requires
// an authenticated admin.
func SetupAdminRoutes(app *fiber.App) {
	// Course CRUD
	courseGroup := app.Group("/admin/course")
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.Course(), adminControllers.AdminCreateCourse)
	courseGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminMiddleware, adminControllers.AdminGetAllCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.CourseID(), adminControllers.AdminGetCourseDetails)
	courseGroup.Put("/:courseId", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.CourseID(), adminValidators.CourseUpdate(), adminControllers.AdminUpdateCourse)
	courseGroup.Delete("/:courseId", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.CourseID(), adminControllers.AdminDeleteCourse)

	// Content editor: modules
	courseGroup.Get("/:courseId/modules", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.CourseID(), editorControllers.ListModules)
	courseGroup.Post("/:courseId/module", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.CourseID(), editorValidators.Module(), editorControllers.CreateModule)
	courseGroup.Put("/:courseId/module/:moduleId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.CourseID(), editorValidators.ModuleID(), editorValidators.Module(), editorControllers.UpdateModule)
	courseGroup.Delete("/:courseId/module/:moduleId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.CourseID(), editorValidators.ModuleID(), editorControllers.DeleteModule)

	// Content editor: lessons
	courseGroup.Post("/:courseId/module/:moduleId/lesson", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.CourseID(), editorValidators.ModuleID(), editorValidators.Lesson(), editorControllers.CreateLesson)

	moduleGroup := app.Group("/admin/module")
	moduleGroup.Put("/:moduleId/lesson/:lessonId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.ModuleID(), editorValidators.LessonID(), editorValidators.Lesson(), editorControllers.UpdateLesson)
	moduleGroup.Delete("/:moduleId/lesson/:lessonId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.ModuleID(), editorValidators.LessonID(), editorControllers.DeleteLesson)
	moduleGroup.Post("/:moduleId/lesson/:lessonId/content", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.ModuleID(), editorValidators.LessonID(), editorControllers.UploadLessonContent)

	// Content editor: module quizzes
	moduleGroup.Put("/:moduleId/quiz", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.ModuleID(), editorValidators.Quiz(), editorControllers.UpsertModuleQuiz)
	moduleGroup.Post("/:moduleId/quiz/question", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.ModuleID(), editorValidators.Question(), editorControllers.AddQuizQuestion)

	questionGroup := app.Group("/admin/question")
	questionGroup.Put("/:questionId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.QuestionID(), editorValidators.Question(), editorControllers.UpdateQuizQuestion)
	questionGroup.Delete("/:questionId", middleware.JWTMiddleware, middleware.AdminMiddleware, editorValidators.QuestionID(), editorControllers.DeleteQuizQuestion)

	// Users and manual enrollment
	userGroup := app.Group("/admin/user")
	userGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminMiddleware, adminControllers.AdminListUsers)
	userGroup.Post("/enroll", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.Enrollment(), adminControllers.AdminEnrollUser)
	userGroup.Post("/unenroll", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.Enrollment(), adminControllers.AdminUnenrollUser)
	courseGroup.Get("/:courseId/enrollments", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.CourseID(), adminControllers.AdminGetCourseEnrollments)

	// Certificate management
	certGroup := app.Group("/admin/certificate")
	certGroup.Get("/requests", middleware.JWTMiddleware, middleware.AdminMiddleware, adminControllers.AdminGetCertificateRequests)
	certGroup.Post("/:requestId/approve", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.RequestID(), adminControllers.AdminApproveCertificate)
	certGroup.Post("/:requestId/reject", middleware.JWTMiddleware, middleware.AdminMiddleware, adminValidators.RequestID(), adminControllers.AdminRejectCertificate)
}
