package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campushub/portal-backend/api/controllers"
	"github.com/campushub/portal-backend/api/middleware"
	"github.com/campushub/portal-backend/internal/announcements"
	"github.com/campushub/portal-backend/internal/assessments"
	"github.com/campushub/portal-backend/internal/assignments"
	"github.com/campushub/portal-backend/internal/attendance"
	"github.com/campushub/portal-backend/internal/auth"
	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/enrollments"
	"github.com/campushub/portal-backend/internal/marks"
	"github.com/campushub/portal-backend/internal/messages"
	"github.com/campushub/portal-backend/internal/notifications"
	"github.com/campushub/portal-backend/internal/realtime"
	"github.com/campushub/portal-backend/pkg/auth/session"
	"github.com/campushub/portal-backend/pkg/config"
	"github.com/campushub/portal-backend/pkg/db"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/campushub/portal-backend/pkg/logger"
	"github.com/campushub/portal-backend/pkg/redis"
)

// Services bundles the domain services the router exposes over HTTP.
type Services struct {
	Auth          auth.Service
	Notifications notifications.Service
	Courses       courses.Service
	Enrollments   enrollments.Service
	Assignments   assignments.Service
	Assessments   assessments.Service
	Attendance    attendance.Service
	Marks         marks.Service
	Messages      messages.Service
	Announcements announcements.Service

	// Badges re-pushes the unread count after the mark-read endpoints run.
	Badges controllers.BadgeRefresher
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.Checker,
	realtimeServer *realtime.Server,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	// Socket handshake authenticates itself; browsers cannot send the
	// Authorization header on websocket dials.
	if realtimeServer != nil {
		r.Get("/ws", realtimeServer.HandleWS())
	}

	teacherOnly := middleware.RequireRole(enums.UserRoleTeacher, logg)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/api/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationsUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, svcs.Badges, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, svcs.Badges, logg))
		})

		r.Route("/api/v1/courses", func(r chi.Router) {
			r.Get("/", controllers.ListCourses(svcs.Courses, logg))
			r.With(teacherOnly).Post("/", controllers.CreateCourse(svcs.Courses, logg))

			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", controllers.GetCourse(svcs.Courses, logg))
				r.With(teacherOnly).Put("/", controllers.UpdateCourse(svcs.Courses, logg))
				r.With(teacherOnly).Delete("/", controllers.DeleteCourse(svcs.Courses, logg))
				r.With(teacherOnly).Post("/teacher", controllers.AssignCourseTeacher(svcs.Courses, logg))

				r.Post("/enroll", controllers.EnrollInCourse(svcs.Enrollments, logg))
				r.Delete("/enroll", controllers.UnenrollFromCourse(svcs.Enrollments, logg))

				r.Get("/assignments", controllers.ListCourseAssignments(svcs.Assignments, logg))
				r.With(teacherOnly).Post("/assignments", controllers.CreateAssignment(svcs.Assignments, logg))

				r.Get("/assessments", controllers.ListCourseAssessments(svcs.Assessments, logg))
				r.With(teacherOnly).Post("/assessments", controllers.CreateAssessment(svcs.Assessments, logg))

				r.Get("/attendance", controllers.ListMyAttendance(svcs.Attendance, logg))
				r.With(teacherOnly).Post("/attendance", controllers.MarkAttendance(svcs.Attendance, logg))

				r.Get("/marks", controllers.ListMyInternalMarks(svcs.Marks, logg))
				r.With(teacherOnly).Post("/marks", controllers.UpsertInternalMark(svcs.Marks, logg))
			})
		})

		r.Get("/api/v1/enrollments", controllers.ListMyEnrollments(svcs.Enrollments, logg))

		r.Route("/api/v1/assignments", func(r chi.Router) {
			r.Post("/{assignmentID}/submissions", controllers.SubmitAssignment(svcs.Assignments, logg))
			r.With(teacherOnly).Post("/submissions/{submissionID}/grade", controllers.GradeAssignmentSubmission(svcs.Assignments, logg))
		})

		r.Route("/api/v1/assessments", func(r chi.Router) {
			r.Post("/{assessmentID}/attempts", controllers.SubmitAssessmentAttempt(svcs.Assessments, logg))
			r.With(teacherOnly).Post("/attempts/{attemptID}/grade", controllers.GradeAssessmentAttempt(svcs.Assessments, logg))
		})

		r.Route("/api/v1/messages", func(r chi.Router) {
			r.Post("/", controllers.SendMessage(svcs.Messages, logg))
			r.Get("/{peerID}", controllers.ListConversation(svcs.Messages, logg))
		})

		r.With(teacherOnly).Post("/api/v1/announcements", controllers.PostAnnouncement(svcs.Announcements, logg))
	})

	return r
}
