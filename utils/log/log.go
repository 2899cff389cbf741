package log

import (
	"os"

	"github.com/ahadhasan/guardian-news-server/utils/dotenv"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	if os.Getenv("GUARDIAN_ENV") == dotenv.ProdEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Send log to stderr so stdout stays free for the process supervisor.
	logger.SetOutput(os.Stderr)

	Log = logger.WithFields(
		logrus.Fields{"service": "guardian_news_api", "is_development": os.Getenv("GUARDIAN_ENV") != dotenv.ProdEnv},
	)
}
