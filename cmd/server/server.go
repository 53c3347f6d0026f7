package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pairup-dev/pairup-server/internal/chat"
	"github.com/pairup-dev/pairup-server/internal/database"
	"github.com/pairup-dev/pairup-server/internal/handlers"
	"github.com/pairup-dev/pairup-server/internal/logger"
	"github.com/pairup-dev/pairup-server/internal/member"
	"github.com/pairup-dev/pairup-server/internal/notify"
	"github.com/pairup-dev/pairup-server/internal/relation"
	"github.com/pairup-dev/pairup-server/pkg/auth"
)

type Server struct {
	Router   *gin.Engine
	DB       *database.Database
	Redis    *redis.Client
	Notifier *notify.Notifier
	Log      *zap.SugaredLogger
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	zlog, err := logger.New(os.Getenv("ENV") != "production")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	db := &database.Database{}
	if err := db.Connect(); err != nil {
		zlog.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		zlog.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zlog.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	relations := relation.NewService(db)
	members := member.NewDirectory(db)
	notifier := notify.New(rdb, zlog)
	chatSvc := chat.NewService(db, relations, members, notifier, zlog)

	authH := handlers.NewAuthHandler(db, jwtMgr, rdb)
	chatH := handlers.NewChatHandler(chatSvc, members, zlog)
	memberH := handlers.NewMemberHandler(db, relations, zlog)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, chatH, memberH)

	return &Server{
		Router:   router,
		DB:       db,
		Redis:    rdb,
		Notifier: notifier,
		Log:      zlog,
	}
}

func (s *Server) Run() {
	defer s.Notifier.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	s.Log.Infof("server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		s.Log.Fatalf("server run error: %v", err)
	}
}
