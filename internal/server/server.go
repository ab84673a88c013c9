package server

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"gorm.io/gorm"

	"anoa.com/schoolhub/internal/authz"
	"anoa.com/schoolhub/internal/config"
	"anoa.com/schoolhub/internal/handler"
	"anoa.com/schoolhub/internal/middleware"
	"anoa.com/schoolhub/internal/repository"
	"anoa.com/schoolhub/internal/service"
	"anoa.com/schoolhub/pkg/storage"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
}

func New(db *gorm.DB, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	engine := authz.NewEngine(schoolRepo)

	// Picture storage and search are optional collaborators; the API runs
	// without either.
	var imageStorage storage.ImageStorage
	if cloudinaryStorage, err := storage.NewCloudinaryStorage(); err != nil {
		log.Printf("cloudinary storage disabled: %v", err)
	} else {
		imageStorage = cloudinaryStorage
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	studentIndex := service.NewStudentIndex(meiliClient)

	authSvc := service.NewAuthService(userRepo, engine)
	authHandler := handler.NewAuthHandler(authSvc)

	schoolSvc := service.NewSchoolService(schoolRepo, userRepo, engine)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)

	classroomSvc := service.NewClassroomService(classroomRepo, schoolRepo, engine)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)

	studentSvc := service.NewStudentService(studentRepo, classroomRepo, schoolRepo, engine, studentIndex, imageStorage)
	studentHandler := handler.NewStudentHandler(studentSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg)

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		// Open only until the first superAdmin exists; the service enforces
		// that, the middleware just surfaces a principal when one is sent.
		auth.POST("/super-admin", authMiddleware.OptionalAuth(), authHandler.CreateSuperAdmin)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/school-admin", authHandler.CreateSchoolAdmin)

		protected.POST("/schools", schoolHandler.CreateSchool)
		protected.GET("/schools", schoolHandler.ListSchools)
		protected.GET("/schools/:id", schoolHandler.GetSchool)
		protected.PUT("/schools/:id", schoolHandler.UpdateSchool)
		protected.DELETE("/schools/:id", schoolHandler.DeleteSchool)

		protected.POST("/classrooms", classroomHandler.CreateClassroom)
		protected.GET("/classrooms", classroomHandler.ListClassrooms)
		protected.GET("/classrooms/:id", classroomHandler.GetClassroom)
		protected.PUT("/classrooms/:id", classroomHandler.UpdateClassroom)
		protected.DELETE("/classrooms/:id", classroomHandler.DeleteClassroom)

		protected.POST("/students", studentHandler.CreateStudent)
		protected.GET("/students", studentHandler.ListStudents)
		protected.GET("/students/:id", studentHandler.GetStudent)
		protected.PUT("/students/:id", studentHandler.UpdateStudent)
		protected.PUT("/students/:id/transfer", studentHandler.TransferStudent)
		protected.POST("/students/:id/picture", studentHandler.UploadPicture)
		protected.DELETE("/students/:id", studentHandler.DeleteStudent)
	}

	return &Server{engine: router, db: db}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := []string{"http://localhost:3000"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
