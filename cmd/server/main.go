package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahadhasan/guardian-news-server/payments"
	"github.com/ahadhasan/guardian-news-server/server"
	"github.com/ahadhasan/guardian-news-server/server/token"
	"github.com/ahadhasan/guardian-news-server/store"
	"github.com/ahadhasan/guardian-news-server/utils"
	"github.com/ahadhasan/guardian-news-server/utils/dotenv"
	. "github.com/ahadhasan/guardian-news-server/utils/log"
)

func tokenTTL() time.Duration {
	raw := os.Getenv("TOKEN_TTL")
	if raw == "" {
		return token.DefaultTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		Log.WithError(err).Fatal("invalid TOKEN_TTL")
	}
	return ttl
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	utils.ParseFlags()

	if !utils.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, os.Getenv("DB_URI"), os.Getenv("DB_NAME"))
	if err != nil {
		Log.WithError(err).Fatal("fail to open store")
	}
	defer st.Close(ctx)

	if err := st.EnsureIndexes(ctx); err != nil {
		// Fatal exits before deferred calls run, so disconnect first.
		st.Close(ctx)
		Log.WithError(err).Fatal("fail to ensure indexes")
	}

	maker := token.NewMaker(os.Getenv("ACCESS_TOKEN_SECRET"), tokenTTL())
	processor := payments.NewStripeProcessor(os.Getenv("STRIPE_SECRET_KEY"))

	handler := server.NewHandler(st, processor, maker)
	router := server.NewRouter(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	Log.Info("api server starts up")
	if err := router.Run(":" + port); err != nil {
		st.Close(ctx)
		Log.WithError(err).Fatal("server exited")
	}
}
