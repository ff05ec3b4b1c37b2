package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"unipress.io/engagement/internal/config"
	"unipress.io/engagement/internal/entity"
	"unipress.io/engagement/internal/middleware"
	bookmarkHandler "unipress.io/engagement/internal/modules/bookmark/delivery/http"
	bookmarkRepo "unipress.io/engagement/internal/modules/bookmark/repository"
	bookmarkService "unipress.io/engagement/internal/modules/bookmark/service"
	commentHandler "unipress.io/engagement/internal/modules/comment/delivery/http"
	commentRepo "unipress.io/engagement/internal/modules/comment/repository"
	commentService "unipress.io/engagement/internal/modules/comment/service"
	contentHandler "unipress.io/engagement/internal/modules/content/delivery/http"
	contentService "unipress.io/engagement/internal/modules/content/service"
	engagementHandler "unipress.io/engagement/internal/modules/engagement/delivery/http"
	engagementService "unipress.io/engagement/internal/modules/engagement/service"
	followHandler "unipress.io/engagement/internal/modules/follow/delivery/http"
	followRepo "unipress.io/engagement/internal/modules/follow/repository"
	followService "unipress.io/engagement/internal/modules/follow/service"
	reactionHandler "unipress.io/engagement/internal/modules/reaction/delivery/http"
	reactionRepo "unipress.io/engagement/internal/modules/reaction/repository"
	reactionService "unipress.io/engagement/internal/modules/reaction/service"
	"unipress.io/engagement/pkg/database"
	"unipress.io/engagement/pkg/logger"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient, err := connectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	searchIndex := contentService.NewSearchIndex(cfg.MeiliSearchHost, cfg.MeiliMasterKey)
	contentSvc := contentService.NewContentService(cfg.ContentAPIURL, cfg.SummaryAPIURL, searchIndex)
	contentHdl := contentHandler.NewContentHandler(contentSvc)

	commentRepository := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(commentRepository, redisClient, cfg.CommentCacheTTL)
	commentHdl := commentHandler.NewCommentHandler(commentSvc)

	reactionRepository := reactionRepo.NewReactionRepository(db)
	reactionSvc := reactionService.NewReactionService(reactionRepository, redisClient, cfg.CountsCacheTTL)
	reactionHdl := reactionHandler.NewReactionHandler(reactionSvc)

	rankConfig := engagementService.RankConfig{
		ManualBoost:    cfg.TrendingManualBoost,
		CommentWeight:  cfg.TrendingCommentWeight,
		ReactionWeight: cfg.TrendingReactionWeight,
		ReactionFloor:  cfg.TrendingReactionFloor,
		Limit:          cfg.TrendingLimit,
	}
	engagementSvc := engagementService.NewEngagementService(
		commentRepository, reactionRepository, contentSvc, redisClient, rankConfig, cfg.TrendingRefresh)
	engagementHdl := engagementHandler.NewEngagementHandler(engagementSvc)

	bookmarkRepository := bookmarkRepo.NewBookmarkRepository(db)
	bookmarkSvc := bookmarkService.NewBookmarkService(bookmarkRepository)
	bookmarkHdl := bookmarkHandler.NewBookmarkHandler(bookmarkSvc)

	followRepository := followRepo.NewFollowRepository(db)
	followSvc := followService.NewFollowService(followRepository)
	followHdl := followHandler.NewFollowHandler(followSvc)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.GuestCookieTTL)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		// Public reads
		api.GET("/posts", contentHdl.ListPosts)
		api.GET("/posts/:slug", contentHdl.GetPost)
		api.GET("/posts/:slug/comments", commentHdl.ListComments)
		api.GET("/posts/:slug/reactions", reactionHdl.ListReactions)
		api.GET("/posts/:slug/reactions/counts", reactionHdl.QuickReactionCounts)
		api.GET("/trending", engagementHdl.GetTrending)
		api.GET("/users/:id/followers", followHdl.CountFollowers)

		// Mutations open to guests: a guest continuity token is minted when
		// no authenticated identity is present.
		open := api.Group("")
		open.Use(authMiddleware.OptionalAuth())
		{
			open.POST("/posts/:slug/comments",
				middleware.RateLimit(redisClient, "comment", cfg.CommentCooldown),
				commentHdl.CreateComment)
			open.POST("/posts/:slug/reactions/toggle", reactionHdl.TogglePostReaction)
			open.POST("/comments/:id/reactions/toggle", reactionHdl.ToggleCommentReaction)
		}

		// Authenticated-only surface
		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.DELETE("/comments/:id", commentHdl.DeleteComment)
			authed.POST("/posts/:slug/bookmark/toggle", bookmarkHdl.Toggle)
			authed.GET("/bookmarks", bookmarkHdl.ListMine)
			authed.POST("/users/:id/follow/toggle", followHdl.Toggle)
			authed.GET("/following", followHdl.ListFollowing)
			authed.POST("/summarize", contentHdl.Summarize)
		}
	}

	// Keep the trending snapshot warm in the background.
	go func() {
		ticker := time.NewTicker(cfg.TrendingRefresh)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := engagementSvc.Refresh(context.Background()); err != nil {
				logger.L().Warn("trending refresh failed", "err", err)
			}
		}
	}()

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Comment{},
		&entity.Reaction{},
		&entity.Bookmark{},
		&entity.Follow{},
	)
}

func connectRedis(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return redis.NewClient(&redis.Options{Addr: "localhost:6379"}), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
