package utils

import (
	"flag"

	"github.com/sirupsen/logrus"
)

var IsDevelopment bool

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
}

// ParseFlags must be called from main before any flag value is read. Parsing
// is not done in init so test binaries can register their own flags first.
func ParseFlags() {
	flag.Parse()

	logrus.WithFields(
		logrus.Fields{"is_development": IsDevelopment},
	).Info("flags initialized")
}
