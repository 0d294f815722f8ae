package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"studyplan-service/internal/cache"
	"studyplan-service/internal/db"
	"studyplan-service/internal/event"
	"studyplan-service/internal/handlers"
	"studyplan-service/internal/repository"
	"studyplan-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	defer db.Disconnect()

	// Redis plan cache, optional
	var planCache *cache.PlanCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PWD"),
			DB:       redisDB,
		})
		ttl := 10 * time.Minute
		if raw := os.Getenv("PLAN_CACHE_TTL_SECONDS"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
				ttl = time.Duration(seconds) * time.Second
			}
		}
		planCache = cache.NewPlanCache(client, ttl)
	} else {
		log.Println("Redis not configured, plan reads will not be cached")
	}

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, public events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	mongoClient := db.Client
	database := mongoClient.Database("studyplan_service")

	// Repositories
	settingsRepo := repository.NewPlanSettingsRepository(database)
	entryRepo := repository.NewPlanEntryRepository(database)
	progressRepo := repository.NewModuleProgressRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	reviewItemRepo := repository.NewReviewItemRepository(database)
	reviewProgressRepo := repository.NewReviewProgressRepository(database)

	// Services
	planService := service.NewPlanService(settingsRepo, entryRepo, progressRepo, courseRepo, planCache)
	reviewService := service.NewReviewService(courseRepo, progressRepo, reviewItemRepo, reviewProgressRepo)

	// Handlers
	planHandler := handlers.NewPlanHandler(planService)
	reviewHandler := handlers.NewReviewHandler(reviewService, progressRepo)

	setupPlanRoutes(r, planHandler, publisher)
	setupReviewRoutes(r, reviewHandler, publisher)

	r.Run(":6677")
}

func requireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setupPlanRoutes(r *gin.Engine, planHandler *handlers.PlanHandler, publisher *event.EventPublisher) {
	protectedPlan := r.Group("/protected/studyplan")
	protectedPlan.Use(requireUserID())
	{
		// === SETTINGS AND REGENERATION ===

		protectedPlan.POST("/settings", func(c *gin.Context) {
			planHandler.Configure(c)
			if publisher != nil {
				publisher.Publish("studyplan.settings.configured", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedPlan.POST("/plan/regenerate", func(c *gin.Context) {
			planHandler.Regenerate(c)
			if publisher != nil {
				publisher.Publish("studyplan.plan.regenerated", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"course_id": c.Query("course_id"),
					"timestamp": time.Now(),
				})
			}
		})

		// === READ-SIDE VIEWS ===

		protectedPlan.GET("/plan/today", planHandler.TodaysPlan)
		protectedPlan.GET("/plan/weekly", planHandler.WeeklyPlan)
		protectedPlan.GET("/plan/behind", planHandler.BehindSchedule)

		// === ENTRY PROGRESS ===

		protectedPlan.PUT("/entry/:id/status", func(c *gin.Context) {
			planHandler.UpdateEntryStatus(c)
			if publisher != nil {
				publisher.Publish("studyplan.entry.status_changed", gin.H{
					"entry_id":  c.Param("id"),
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
	}
}

func setupReviewRoutes(r *gin.Engine, reviewHandler *handlers.ReviewHandler, publisher *event.EventPublisher) {
	protectedReview := r.Group("/protected/studyplan/review")
	protectedReview.Use(requireUserID())
	{
		protectedReview.GET("/next", func(c *gin.Context) {
			reviewHandler.NextItem(c)
			if publisher != nil {
				publisher.Publish("studyplan.review.item_served", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"course_id": c.Query("course_id"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedReview.POST("/:id/rate", func(c *gin.Context) {
			reviewHandler.RateItem(c)
			if publisher != nil {
				publisher.Publish("studyplan.review.item_rated", gin.H{
					"item_id":   c.Param("id"),
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedReview.GET("/progress", reviewHandler.Progress)

		protectedReview.PUT("/module/:moduleId/learned", func(c *gin.Context) {
			reviewHandler.MarkModuleLearned(c)
			if publisher != nil {
				publisher.Publish("studyplan.module.learn_status_changed", gin.H{
					"module_id": c.Param("moduleId"),
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
	}
}
