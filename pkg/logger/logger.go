package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// L is the shared application logger.
var L *logrus.Logger

func init() {
	L = logrus.New()
	L.SetOutput(os.Stdout)
	L.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	L.SetLevel(logrus.InfoLevel)
}
