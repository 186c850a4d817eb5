package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init sets the global logrus level and formatter.
// format is "text" (default) or "json".
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	}
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(lvl)
	return nil
}
