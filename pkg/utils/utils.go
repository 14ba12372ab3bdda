package utils

import (
	"time"
)

func GetNowDateTime() string {
	now := time.Now()
	return now.Format("01-02 15:04:05")
}
